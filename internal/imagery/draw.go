package imagery

import "github.com/lucasb-eyer/go-colorful"

// DrawCmd is an overlay drawing primitive attached to a channel result.
// It is a closed set: LineCmd, CircleCmd or ScatterCmd.
type DrawCmd interface {
	drawCmd()
}

// LineCmd draws a straight segment between two endpoints. Coordinates are
// kept as floats because fitted lines intersect the image border at
// sub-pixel positions.
type LineCmd struct {
	Y0, X0 float64
	Y1, X1 float64
}

func (LineCmd) drawCmd() {}

// CircleCmd draws a circle outline.
type CircleCmd struct {
	CenterY float64
	CenterX float64
	Radius  float64
}

func (CircleCmd) drawCmd() {}

// ScatterCmd marks a set of pixels in a display color.
type ScatterCmd struct {
	Points []Point
	Color  colorful.Color
}

func (ScatterCmd) drawCmd() {}

// Overlay colors used by the engine's own annotations.
var (
	// OutlineOuterColor marks outer-boundary (Lout) pixels.
	OutlineOuterColor = colorful.Color{R: 1, G: 0, B: 0}
	// OutlineInnerColor marks inner-boundary (Lin) pixels.
	OutlineInnerColor = colorful.Color{R: 1, G: 0, B: 1}
)
