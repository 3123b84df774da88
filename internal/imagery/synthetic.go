package imagery

import "math"

// Reserved names of the built-in reference images.
const (
	DiscImageName   = "circle.pgm"
	SquareImageName = "square.pgm"
)

const (
	syntheticLen = 200
	discRadius   = 100
	squareLen    = 160
)

// NewDiscImage builds the built-in reference image: a white disc of radius
// 100 centered in a 200x200 black field.
func NewDiscImage() *Image {
	c := NewChannel(syntheticLen, syntheticLen)
	cy, cx := syntheticLen/2, syntheticLen/2
	for y := 0; y < syntheticLen; y++ {
		for x := 0; x < syntheticLen; x++ {
			dy, dx := float64(y-cy), float64(x-cx)
			if math.Sqrt(dy*dy+dx*dx) <= discRadius {
				c[y][x] = MaxColor
			}
		}
	}
	img, _ := New(DiscImageName, FormatPGM, []Channel{c})
	return img
}

// NewSquareImage builds the built-in reference image: a white 160x160 square
// centered in a 200x200 black field.
func NewSquareImage() *Image {
	c := NewChannel(syntheticLen, syntheticLen)
	diff := (syntheticLen - squareLen) / 2
	for y := diff; y < syntheticLen-diff; y++ {
		for x := diff; x < syntheticLen-diff; x++ {
			c[y][x] = MaxColor
		}
	}
	img, _ := New(SquareImageName, FormatPGM, []Channel{c})
	return img
}
