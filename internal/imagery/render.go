package imagery

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RenderOverlays flattens an image and draws the overlay commands of its last
// transformation on top of it, in emission order. The engine itself never
// consumes overlays; this is the rendering side of the contract, used by the
// tool surface to hand annotated previews back to the caller.
func RenderOverlays(img *Image) image.Image {
	flat := img.ToImage()
	out := image.NewRGBA(flat.Bounds())
	draw.Draw(out, flat.Bounds(), flat, flat.Bounds().Min, draw.Src)

	last, err := img.LastTransformation()
	if err != nil {
		return out
	}
	for _, res := range last.Channels {
		if res == nil {
			continue
		}
		for _, cmd := range res.Overlay() {
			drawCmd(out, cmd)
		}
	}
	return out
}

func drawCmd(dst *image.RGBA, cmd DrawCmd) {
	switch c := cmd.(type) {
	case LineCmd:
		drawLine(dst, c)
	case CircleCmd:
		drawCircle(dst, c)
	case ScatterCmd:
		col := toRGBA(c.Color)
		for _, p := range c.Points {
			setIfInside(dst, p.X, p.Y, col)
		}
	}
}

// Fitted lines and circles render in green so they stand out against both
// dark and light content.
var annotationColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

func drawLine(dst *image.RGBA, cmd LineCmd) {
	dy := cmd.Y1 - cmd.Y0
	dx := cmd.X1 - cmd.X0
	steps := int(math.Max(math.Abs(dy), math.Abs(dx))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(cmd.X0 + t*dx))
		y := int(math.Round(cmd.Y0 + t*dy))
		setIfInside(dst, x, y, annotationColor)
	}
}

func drawCircle(dst *image.RGBA, cmd CircleCmd) {
	// Step angle so consecutive samples are at most one pixel apart.
	steps := int(2*math.Pi*cmd.Radius) + 8
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Round(cmd.CenterX + cmd.Radius*math.Cos(angle)))
		y := int(math.Round(cmd.CenterY + cmd.Radius*math.Sin(angle)))
		setIfInside(dst, x, y, annotationColor)
	}
}

func setIfInside(dst *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.SetRGBA(x, y, c)
	}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ParseHexColor parses a "#RRGGBB" display color for scatter overlays.
func ParseHexColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return c, nil
}
