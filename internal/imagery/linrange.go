package imagery

import "fmt"

// LinRange is a closed parameter range (Start, End) sampled at Count evenly
// spaced values. It discretizes the angle, radius and center axes of the
// Hough parameter space.
type LinRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// NewLinRange validates and builds a range. Count must be at least 1.
func NewLinRange(start, end float64, count int) (LinRange, error) {
	if count < 1 {
		return LinRange{}, fmt.Errorf("lin range count must be at least 1, got %d", count)
	}
	return LinRange{Start: start, End: end, Count: count}, nil
}

// Linspace materializes the sample sequence. A Count of 1 yields only Start;
// otherwise both endpoints are included.
func (r LinRange) Linspace() []float64 {
	samples := make([]float64, r.Count)
	if r.Count == 1 {
		samples[0] = r.Start
		return samples
	}
	step := (r.End - r.Start) / float64(r.Count-1)
	for i := range samples {
		samples[i] = r.Start + float64(i)*step
	}
	return samples
}
