package feature

import (
	"fmt"
	"strings"

	"pixelscope/internal/convolve"
	"pixelscope/internal/imagery"
)

// Harris response bands.
const (
	harrisEdge   = 125
	harrisCorner = 255
)

// HarrisResponse selects the corner response formula.
type HarrisResponse int

const (
	// HarrisR1 is the standard response det(M) - k*trace(M)^2 with
	// det = Ix2*Iy2 - Ixy^2.
	HarrisR1 HarrisResponse = iota
	// HarrisR2 is the simplified variant with det = Ix2*Iy2 - 4*Ixy. The
	// determinant term is dimensionally inconsistent with the standard
	// second-moment determinant; it is kept as the catalog defines it.
	HarrisR2
)

var harrisNames = map[HarrisResponse]string{
	HarrisR1: "r1",
	HarrisR2: "r2",
}

func (r HarrisResponse) String() string {
	if name, ok := harrisNames[r]; ok {
		return name
	}
	return fmt.Sprintf("harris(%d)", int(r))
}

// HarrisResponseFromString resolves a response variant by name.
func HarrisResponseFromString(name string) (HarrisResponse, error) {
	for r, n := range harrisNames {
		if n == strings.ToLower(name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%q is not a supported Harris function", name)
}

func (r HarrisResponse) apply(ix2, ixy, iy2, k float64) float64 {
	var det float64
	if r == HarrisR1 {
		det = ix2*iy2 - ixy*ixy
	} else {
		det = ix2*iy2 - 4*ixy
	}
	trace := ix2 + iy2
	return det - k*trace*trace
}

// HarrisChannel computes the Harris corner response of one channel: Prewitt
// gradients, Gaussian-smoothed second-moment terms, the selected response
// formula, then a three-band thresholding of the normalized |R|: 0 below the
// threshold, 125 above it where R is negative (edge-like), 255 above it where
// R is positive (corner-like).
func HarrisChannel(c imagery.Channel, sigma, k, threshold float64, response HarrisResponse, padding convolve.PaddingStrategy) (imagery.Channel, error) {
	gauss, err := convolve.GaussKernel(sigma)
	if err != nil {
		return nil, err
	}

	kernel := convolve.KernelPrewitt.Kernel()
	dx := convolve.WeightedSum(c, kernel, padding)
	dy := convolve.WeightedSum(c, kernel.Rotate90(), padding)

	h, w := c.Height(), c.Width()
	ix2 := imagery.NewChannel(h, w)
	ixy := imagery.NewChannel(h, w)
	iy2 := imagery.NewChannel(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ix2[y][x] = dx[y][x] * dx[y][x]
			ixy[y][x] = dx[y][x] * dy[y][x]
			iy2[y][x] = dy[y][x] * dy[y][x]
		}
	}
	ix2 = convolve.WeightedSum(ix2, gauss, padding)
	ixy = convolve.WeightedSum(ixy, gauss, padding)
	iy2 = convolve.WeightedSum(iy2, gauss, padding)

	r := imagery.NewChannel(h, w)
	negative := make([][]bool, h)
	for y := 0; y < h; y++ {
		negative[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			v := response.apply(ix2[y][x], ixy[y][x], iy2[y][x], k)
			if v < 0 {
				negative[y][x] = true
				v = -v
			}
			r[y][x] = v
		}
	}

	out := imagery.Normalize(r)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case out[y][x] < threshold:
				out[y][x] = 0
			case negative[y][x]:
				out[y][x] = harrisEdge
			default:
				out[y][x] = harrisCorner
			}
		}
	}
	return out, nil
}

// Harris applies the Harris corner response to every channel.
func Harris(img *imagery.Image, sigma, k, threshold float64, response HarrisResponse, padding convolve.PaddingStrategy) (*imagery.Image, error) {
	channels, results, err := img.ApplyOverChannels(func(c imagery.Channel) (imagery.Channel, imagery.ChannelResult, error) {
		out, err := HarrisChannel(c, sigma, k, threshold, response, padding)
		return out, nil, err
	})
	if err != nil {
		return nil, err
	}
	record := imagery.Transformation{
		Name:     "harris",
		Major:    map[string]any{"sigma": sigma, "function": response.String()},
		Minor:    map[string]any{"k": k, "threshold": threshold, "padding": padding.String()},
		Channels: results,
	}
	return img.Transform(fmt.Sprintf("%s_harris", img.Name), channels, record), nil
}
