package convolve

import (
	"fmt"
	"strings"

	"pixelscope/internal/imagery"
)

// PaddingStrategy resolves neighborhood lookups that fall outside the image
// bounds during convolution.
type PaddingStrategy int

const (
	// PaddingZero fills out-of-bounds neighbors with 0.
	PaddingZero PaddingStrategy = iota
	// PaddingEdge replicates the nearest edge pixel.
	PaddingEdge
	// PaddingReflect mirrors the image across its border.
	PaddingReflect
	// PaddingWrap tiles the image periodically.
	PaddingWrap
)

var paddingNames = map[PaddingStrategy]string{
	PaddingZero:    "zero",
	PaddingEdge:    "edge",
	PaddingReflect: "reflect",
	PaddingWrap:    "wrap",
}

func (p PaddingStrategy) String() string {
	if name, ok := paddingNames[p]; ok {
		return name
	}
	return fmt.Sprintf("padding(%d)", int(p))
}

// PaddingFromString resolves a padding strategy by name.
func PaddingFromString(name string) (PaddingStrategy, error) {
	for p, n := range paddingNames {
		if n == strings.ToLower(name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%q is not a supported padding strategy", name)
}

// Sample reads channel value (y, x), resolving out-of-bounds coordinates
// according to the strategy.
func (p PaddingStrategy) Sample(c imagery.Channel, y, x int) float64 {
	h, w := c.Height(), c.Width()
	if y >= 0 && y < h && x >= 0 && x < w {
		return c[y][x]
	}
	switch p {
	case PaddingZero:
		return 0
	case PaddingEdge:
		return c[clamp(y, 0, h-1)][clamp(x, 0, w-1)]
	case PaddingReflect:
		return c[reflect(y, h)][reflect(x, w)]
	case PaddingWrap:
		return c[mod(y, h)][mod(x, w)]
	default:
		return 0
	}
}

// clamp constrains an index to [min, max].
func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// reflect mirrors an index into [0, n) with the edge sample included, so
// index -1 maps to 0 and index n maps to n-1.
func reflect(v, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	v = mod(v, period)
	if v >= n {
		v = period - 1 - v
	}
	return v
}

// mod is the positive modulus.
func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
