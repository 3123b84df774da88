package imagery

import "math"

// Normalize rescales a channel linearly into [0, MaxColor]. Transformation
// outputs are signed and unbounded (gradients, responses), so display and
// thresholding always go through this mapping. A constant channel has no
// range to stretch; it maps to min(|v|, MaxColor) everywhere.
func Normalize(c Channel) Channel {
	h, w := c.Height(), c.Width()
	out := NewChannel(h, w)
	if h == 0 || w == 0 {
		return out
	}

	minVal, maxVal := c[0][0], c[0][0]
	for _, row := range c {
		for _, v := range row {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}

	if maxVal == minVal {
		fill := math.Min(math.Abs(c[0][0]), MaxColor)
		for y := range out {
			for x := range out[y] {
				out[y][x] = fill
			}
		}
		return out
	}

	scale := MaxColor / (maxVal - minVal)
	for y, row := range c {
		for x, v := range row {
			out[y][x] = (v - minVal) * scale
		}
	}
	return out
}

// Histogram computes the normalized intensity histogram of a channel: one bin
// per representable level over the normalized [0, MaxColor] range, with
// frequencies summing to 1.
func Histogram(c Channel) [ColorDepth]float64 {
	var hist [ColorDepth]float64
	norm := Normalize(c)
	total := float64(c.Height() * c.Width())
	if total == 0 {
		return hist
	}
	for _, row := range norm {
		for _, v := range row {
			bin := int(v)
			if bin < 0 {
				bin = 0
			}
			if bin > MaxColor {
				bin = MaxColor
			}
			hist[bin]++
		}
	}
	for i := range hist {
		hist[i] /= total
	}
	return hist
}
