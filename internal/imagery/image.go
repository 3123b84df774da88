package imagery

import (
	"fmt"
	"sync"
)

// ColorDepth is the number of representable intensity levels per channel.
const ColorDepth = 256

// MaxColor is the maximum intensity value (white).
const MaxColor = ColorDepth - 1

// Channel indices for multi-channel images.
const (
	RedChannel   = 0
	GreenChannel = 1
	BlueChannel  = 2
)

// Format identifies the on-disk encoding an image was discovered or declared
// to have. The engine never encodes or decodes these formats itself; the tag
// travels with the image so the outer application can round-trip it.
type Format string

// Supported format tags.
const (
	FormatPGM  Format = "pgm"
	FormatPPM  Format = "ppm"
	FormatJPEG Format = "jpeg"
	FormatJPG  Format = "jpg"
	FormatPNG  Format = "png"
	FormatRAW  Format = "raw"
)

// FormatFromString validates a format name and returns its tag.
func FormatFromString(s string) (Format, error) {
	switch Format(s) {
	case FormatPGM, FormatPPM, FormatJPEG, FormatJPG, FormatPNG, FormatRAW:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%q is not a supported image format", s)
	}
}

// Point is a pixel coordinate in (row, column) order.
type Point struct {
	Y int `json:"y"`
	X int `json:"x"`
}

// Channel is one scalar plane of an image, indexed channel[y][x].
type Channel [][]float64

// NewChannel allocates a zero-filled channel of the given shape.
func NewChannel(height, width int) Channel {
	c := make(Channel, height)
	for y := range c {
		c[y] = make([]float64, width)
	}
	return c
}

// Height returns the number of rows.
func (c Channel) Height() int { return len(c) }

// Width returns the number of columns. Zero-height channels have zero width.
func (c Channel) Width() int {
	if len(c) == 0 {
		return 0
	}
	return len(c[0])
}

// Clone returns a deep copy of the channel.
func (c Channel) Clone() Channel {
	out := make(Channel, len(c))
	for y, row := range c {
		out[y] = make([]float64, len(row))
		copy(out[y], row)
	}
	return out
}

// Image is a named stack of one (grayscale) or three (RGB) channels plus the
// append-only history of transformations that produced it.
type Image struct {
	Name   string
	Format Format

	// Channels holds 1 or 3 planes of identical spatial shape.
	Channels []Channel

	// Movie is the name of the image sequence this image belongs to, or
	// empty for standalone images.
	Movie string

	// History records every transformation applied so far, oldest first.
	History []Transformation
}

// New builds an image from its channels. All channels must share the same
// spatial shape and the channel count must be 1 or 3.
func New(name string, format Format, channels []Channel) (*Image, error) {
	if n := len(channels); n != 1 && n != 3 {
		return nil, fmt.Errorf("image must have 1 or 3 channels, got %d", n)
	}
	h, w := channels[0].Height(), channels[0].Width()
	if h == 0 || w == 0 {
		return nil, fmt.Errorf("image must have a non-empty shape, got %dx%d", h, w)
	}
	for i, c := range channels[1:] {
		if c.Height() != h || c.Width() != w {
			return nil, fmt.Errorf("channel %d shape %dx%d does not match channel 0 shape %dx%d",
				i+1, c.Height(), c.Width(), h, w)
		}
	}
	return &Image{Name: name, Format: format, Channels: channels}, nil
}

// Height returns the number of pixel rows.
func (img *Image) Height() int { return img.Channels[0].Height() }

// Width returns the number of pixel columns.
func (img *Image) Width() int { return img.Channels[0].Width() }

// NumChannels returns 1 for grayscale and 3 for RGB images.
func (img *Image) NumChannels() int { return len(img.Channels) }

// IsMultiChannel reports whether the image has more than one channel.
func (img *Image) IsMultiChannel() bool { return img.NumChannels() > 1 }

// MovieFrame reports whether the image belongs to an image sequence.
func (img *Image) MovieFrame() bool { return img.Movie != "" }

// ValidPixel reports whether the point lies inside the image bounds.
func (img *Image) ValidPixel(p Point) bool {
	return p.X >= 0 && p.X < img.Width() && p.Y >= 0 && p.Y < img.Height()
}

// Pixel returns the per-channel values at a point: one value for grayscale,
// three for RGB.
func (img *Image) Pixel(p Point) []float64 {
	vals := make([]float64, img.NumChannels())
	for i, c := range img.Channels {
		vals[i] = c[p.Y][p.X]
	}
	return vals
}

// LastTransformation returns the most recent history record.
func (img *Image) LastTransformation() (Transformation, error) {
	if len(img.History) == 0 {
		return Transformation{}, fmt.Errorf("image %q has no transformations", img.Name)
	}
	return img.History[len(img.History)-1], nil
}

// Transform returns a new Image carrying the given channels and the history of
// the receiver extended with one record. The receiver is left untouched.
func (img *Image) Transform(name string, channels []Channel, record Transformation) *Image {
	history := make([]Transformation, len(img.History), len(img.History)+1)
	copy(history, img.History)
	return &Image{
		Name:     name,
		Format:   img.Format,
		Channels: channels,
		Movie:    img.Movie,
		History:  append(history, record),
	}
}

// ChannelFunc transforms one channel, optionally producing a per-channel
// result. A nil ChannelResult is recorded as an empty outcome.
type ChannelFunc func(Channel) (Channel, ChannelResult, error)

// ApplyOverChannels runs fn on every channel and collects the outputs and
// per-channel results in channel order. Channels are independent, so they are
// processed concurrently; fn must not share mutable state across calls.
func (img *Image) ApplyOverChannels(fn ChannelFunc) ([]Channel, []ChannelResult, error) {
	n := img.NumChannels()
	channels := make([]Channel, n)
	results := make([]ChannelResult, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			channels[i], results[i], errs[i] = fn(img.Channels[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, nil, fmt.Errorf("channel %d: %w", i, err)
		}
	}
	return channels, results, nil
}

// CombineFunc combines one channel of each of two images.
type CombineFunc func(a, b Channel) (Channel, ChannelResult, error)

// CombineOverChannels runs fn pairwise over the channels of two images. The
// images must have the same channel count; mismatches are rejected before any
// computation happens.
func (img *Image) CombineOverChannels(other *Image, fn CombineFunc) ([]Channel, []ChannelResult, error) {
	if img.NumChannels() != other.NumChannels() {
		return nil, nil, fmt.Errorf("cannot combine images of different channel count: %d vs %d",
			img.NumChannels(), other.NumChannels())
	}
	n := img.NumChannels()
	channels := make([]Channel, n)
	results := make([]ChannelResult, n)
	for i := 0; i < n; i++ {
		out, res, err := fn(img.Channels[i], other.Channels[i])
		if err != nil {
			return nil, nil, fmt.Errorf("channel %d: %w", i, err)
		}
		channels[i], results[i] = out, res
	}
	return channels, results, nil
}
