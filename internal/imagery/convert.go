package imagery

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// FromImage converts a decoded image.Image into the engine's model.
// Grayscale sources become single-channel images; everything else becomes
// three RGB planes. Values are 8-bit intensities widened to float64.
func FromImage(name string, format Format, src image.Image) (*Image, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if gray, ok := src.(*image.Gray); ok {
		c := NewChannel(height, width)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c[y][x] = float64(gray.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y)
			}
		}
		return New(name, format, []Channel{c})
	}

	r := NewChannel(height, width)
	g := NewChannel(height, width)
	b := NewChannel(height, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pr, pg, pb, _ := src.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			r[y][x] = float64(pr >> 8)
			g[y][x] = float64(pg >> 8)
			b[y][x] = float64(pb >> 8)
		}
	}
	return New(name, format, []Channel{r, g, b})
}

// ToImage renders the model back into a drawable image.Image, normalizing
// every channel into [0, MaxColor] first.
func (img *Image) ToImage() image.Image {
	width, height := img.Width(), img.Height()

	if !img.IsMultiChannel() {
		norm := Normalize(img.Channels[0])
		out := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.SetGray(x, y, color.Gray{Y: uint8(norm[y][x])})
			}
		}
		return out
	}

	r := Normalize(img.Channels[RedChannel])
	g := Normalize(img.Channels[GreenChannel])
	b := Normalize(img.Channels[BlueChannel])
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(r[y][x]),
				G: uint8(g[y][x]),
				B: uint8(b[y][x]),
				A: 255,
			})
		}
	}
	return out
}

// Load decodes an image file into the model. The format tag is discovered
// from the file extension.
func Load(path string) (*Image, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	name := filepath.Base(path)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	format, err := FormatFromString(ext)
	if err != nil {
		return nil, err
	}
	return FromImage(name, format, src)
}

// Save encodes the image to disk; the encoding is chosen from the path
// extension.
func Save(img *Image, path string) error {
	if err := imaging.Save(img.ToImage(), path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Presmooth applies a Gaussian blur of the given radius to every channel.
// Canny assumes its input channel was noise-suppressed beforehand; this is
// that preparation step, run on the decoded image so color images smooth all
// planes consistently.
func Presmooth(img *Image, radius float64) (*Image, error) {
	smoothed := blur.Gaussian(img.ToImage(), radius)
	out, err := FromImage(img.Name, img.Format, smoothed)
	if err != nil {
		return nil, err
	}
	if !img.IsMultiChannel() && out.IsMultiChannel() {
		// bild returns RGBA even for gray input; collapse back.
		out.Channels = out.Channels[:1]
	}
	record := Transformation{
		Name:  "presmooth",
		Major: map[string]any{"radius": radius},
		Minor: map[string]any{},
	}
	return img.Transform(img.Name, out.Channels, record), nil
}
