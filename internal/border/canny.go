package border

import (
	"math"

	"pixelscope/internal/convolve"
	"pixelscope/internal/imagery"
)

// CannyChannel runs Canny edge detection over a channel that was already
// noise-suppressed (see imagery.Presmooth). Gradients come from Prewitt; the
// gradient angle is quantized into four directions for non-maximum
// suppression; the normalized magnitude is double-thresholded and undecided
// pixels are resolved by 8-connected hysteresis in two full raster passes,
// row-major then column-major, so connectivity propagates transitively.
func CannyChannel(c imagery.Channel, lowThreshold, highThreshold float64, padding convolve.PaddingStrategy) imagery.Channel {
	kernel := convolve.KernelPrewitt.Kernel()
	dx := convolve.WeightedSum(c, kernel, padding)
	dy := convolve.WeightedSum(c, kernel.Rotate90(), padding)

	h, w := c.Height(), c.Width()
	mod := imagery.NewChannel(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mod[y][x] = math.Hypot(dx[y][x], dy[y][x])
		}
	}

	// Suppress pixels that are not the maximum along their gradient
	// direction. The direction mask picks the center and its two aligned
	// neighbors out of the 3x3 magnitude window.
	suppressed := imagery.NewChannel(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mask := gradientDirection(dy[y][x], dx[y][x]).Mask()
			max := math.Inf(-1)
			for my := 0; my < 3; my++ {
				for mx := 0; mx < 3; mx++ {
					v := mask[my][mx] * padding.Sample(mod, y+my-1, x+mx-1)
					if v > max {
						max = v
					}
				}
			}
			if max == mod[y][x] {
				suppressed[y][x] = mod[y][x]
			}
		}
	}

	out := imagery.Normalize(suppressed)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if out[y][x] >= highThreshold {
				out[y][x] = imagery.MaxColor
			} else if out[y][x] <= lowThreshold {
				out[y][x] = 0
			}
		}
	}

	// Two hysteresis passes: undecided pixels join the border if any
	// 8-neighbor already did. The second pass runs column-major so chains
	// resolved late in the first pass still propagate.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dragBorder(out, lowThreshold, highThreshold, y, x)
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			dragBorder(out, lowThreshold, highThreshold, y, x)
		}
	}
	return out
}

// dragBorder resolves one undecided pixel in place.
func dragBorder(mod imagery.Channel, low, high float64, y, x int) {
	if !(low < mod[y][x] && mod[y][x] < high) {
		return
	}
	h, w := mod.Height(), mod.Width()
	for ny := maxInt(y-1, 0); ny <= minInt(y+1, h-1); ny++ {
		for nx := maxInt(x-1, 0); nx <= minInt(x+1, w-1); nx++ {
			if mod[ny][nx] == imagery.MaxColor {
				mod[y][x] = imagery.MaxColor
				return
			}
		}
	}
	mod[y][x] = 0
}

// gradientDirection quantizes a gradient vector's angle into one of the four
// compass directions, using bucket boundaries at 22.5, 67.5, 112.5 and 157.5
// degrees.
func gradientDirection(dy, dx float64) convolve.Direction {
	angle := math.Atan2(dy, dx)
	if angle < 0 {
		angle += math.Pi
	}
	deg := (math.Pi - angle) * 180 / math.Pi
	switch {
	case deg >= 22.5 && deg < 67.5:
		return convolve.DirPositiveDiagonal
	case deg >= 67.5 && deg < 112.5:
		return convolve.DirVertical
	case deg >= 112.5 && deg < 157.5:
		return convolve.DirNegativeDiagonal
	default:
		return convolve.DirHorizontal
	}
}

// Canny applies Canny edge detection to every channel. The channel data is
// assumed pre-smoothed.
func Canny(img *imagery.Image, lowThreshold, highThreshold float64, padding convolve.PaddingStrategy) (*imagery.Image, error) {
	channels, results, err := img.ApplyOverChannels(func(c imagery.Channel) (imagery.Channel, imagery.ChannelResult, error) {
		return CannyChannel(c, lowThreshold, highThreshold, padding), nil, nil
	})
	if err != nil {
		return nil, err
	}
	record := imagery.Transformation{
		Name:     "canny",
		Major:    map[string]any{},
		Minor:    map[string]any{"t1": lowThreshold, "t2": highThreshold, "padding": padding.String()},
		Channels: results,
	}
	return img.Transform(transformedName(img, "canny"), channels, record), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
