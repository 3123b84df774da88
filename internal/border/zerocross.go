package border

import (
	"math"

	"pixelscope/internal/convolve"
	"pixelscope/internal/imagery"
)

// zeroCrossingVertical marks pixels where the value and its neighbor one row
// down change sign with |difference| above the threshold, or where the
// neighbor two rows down has the opposite sign with an exact zero in between.
// The last row never crosses.
func zeroCrossingVertical(c imagery.Channel, threshold float64, mark [][]bool) {
	h, w := c.Height(), c.Width()
	for y := 0; y < h-1; y++ {
		for x := 0; x < w; x++ {
			if c[y][x]*c[y+1][x] < 0 && math.Abs(c[y][x]-c[y+1][x]) > threshold {
				mark[y][x] = true
			}
		}
	}
	for y := 0; y < h-2; y++ {
		for x := 0; x < w; x++ {
			if c[y][x]*c[y+2][x] < 0 && c[y+1][x] == 0 && math.Abs(c[y][x]-c[y+2][x]) > threshold {
				mark[y][x] = true
			}
		}
	}
}

// zeroCrossingHorizontal is the column-direction analogue.
func zeroCrossingHorizontal(c imagery.Channel, threshold float64, mark [][]bool) {
	h, w := c.Height(), c.Width()
	for y := 0; y < h; y++ {
		for x := 0; x < w-1; x++ {
			if c[y][x]*c[y][x+1] < 0 && math.Abs(c[y][x]-c[y][x+1]) > threshold {
				mark[y][x] = true
			}
		}
		for x := 0; x < w-2; x++ {
			if c[y][x]*c[y][x+2] < 0 && c[y][x+1] == 0 && math.Abs(c[y][x]-c[y][x+2]) > threshold {
				mark[y][x] = true
			}
		}
	}
}

// ZeroCrossingBorders unions the vertical and horizontal zero-crossing masks
// of a second-derivative response and paints border pixels at max intensity.
func ZeroCrossingBorders(c imagery.Channel, threshold float64) imagery.Channel {
	h, w := c.Height(), c.Width()
	mark := make([][]bool, h)
	for y := range mark {
		mark[y] = make([]bool, w)
	}
	zeroCrossingVertical(c, threshold, mark)
	zeroCrossingHorizontal(c, threshold, mark)

	out := imagery.NewChannel(h, w)
	for y := range mark {
		for x := range mark[y] {
			if mark[y][x] {
				out[y][x] = imagery.MaxColor
			}
		}
	}
	return out
}

// LaplaceChannel convolves with the fixed 3x3 Laplacian and localizes edges
// at the zero crossings of the response.
func LaplaceChannel(c imagery.Channel, crossingThreshold float64, padding convolve.PaddingStrategy) imagery.Channel {
	second := convolve.WeightedSum(c, convolve.KernelLaplace.Kernel(), padding)
	return ZeroCrossingBorders(second, crossingThreshold)
}

// LoGChannel is the same zero-crossing procedure over the analytic
// Laplacian-of-Gaussian response for the given sigma.
func LoGChannel(c imagery.Channel, sigma, crossingThreshold float64, padding convolve.PaddingStrategy) (imagery.Channel, error) {
	kernel, err := convolve.LoGKernel(sigma)
	if err != nil {
		return nil, err
	}
	second := convolve.WeightedSum(c, kernel, padding)
	return ZeroCrossingBorders(second, crossingThreshold), nil
}

// Laplace applies Laplacian zero-crossing edge detection to every channel.
func Laplace(img *imagery.Image, crossingThreshold float64, padding convolve.PaddingStrategy) (*imagery.Image, error) {
	channels, results, err := img.ApplyOverChannels(func(c imagery.Channel) (imagery.Channel, imagery.ChannelResult, error) {
		return LaplaceChannel(c, crossingThreshold, padding), nil, nil
	})
	if err != nil {
		return nil, err
	}
	record := imagery.Transformation{
		Name:     "laplace",
		Major:    map[string]any{},
		Minor:    map[string]any{"crossing_threshold": crossingThreshold, "padding": padding.String()},
		Channels: results,
	}
	return img.Transform(transformedName(img, "laplace"), channels, record), nil
}

// LoG applies Laplacian-of-Gaussian zero-crossing edge detection to every
// channel.
func LoG(img *imagery.Image, sigma, crossingThreshold float64, padding convolve.PaddingStrategy) (*imagery.Image, error) {
	channels, results, err := img.ApplyOverChannels(func(c imagery.Channel) (imagery.Channel, imagery.ChannelResult, error) {
		out, err := LoGChannel(c, sigma, crossingThreshold, padding)
		return out, nil, err
	})
	if err != nil {
		return nil, err
	}
	record := imagery.Transformation{
		Name:     "log",
		Major:    map[string]any{"sigma": sigma},
		Minor:    map[string]any{"crossing_threshold": crossingThreshold, "padding": padding.String()},
		Channels: results,
	}
	return img.Transform(transformedName(img, "log"), channels, record), nil
}
