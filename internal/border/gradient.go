package border

import (
	"fmt"
	"math"

	"pixelscope/internal/convolve"
	"pixelscope/internal/imagery"
)

// DirectionalChannel convolves a channel with a vertically oriented kernel
// rotated to respond along the requested compass direction.
func DirectionalChannel(c imagery.Channel, vertical convolve.Kernel, dir convolve.Direction, padding convolve.PaddingStrategy) imagery.Channel {
	return convolve.WeightedSum(c, dir.Align(vertical), padding)
}

// HighPassChannel convolves with the n x n sharpening mask.
func HighPassChannel(c imagery.Channel, kernelSize int, padding convolve.PaddingStrategy) (imagery.Channel, error) {
	kernel, err := convolve.HighPassKernel(kernelSize)
	if err != nil {
		return nil, err
	}
	return convolve.WeightedSum(c, kernel, padding), nil
}

// GradientModulus computes sqrt(Gx^2 + Gy^2) where Gx comes from the given X
// derivative kernel and Gy from its 90 degree rotation.
func GradientModulus(c imagery.Channel, kernel convolve.Kernel, padding convolve.PaddingStrategy) imagery.Channel {
	gx := convolve.WeightedSum(c, kernel, padding)
	gy := convolve.WeightedSum(c, kernel.Rotate90(), padding)
	out := imagery.NewChannel(c.Height(), c.Width())
	for y := range out {
		for x := range out[y] {
			out[y][x] = math.Hypot(gx[y][x], gy[y][x])
		}
	}
	return out
}

// PrewittChannel is the Prewitt gradient magnitude.
func PrewittChannel(c imagery.Channel, padding convolve.PaddingStrategy) imagery.Channel {
	return GradientModulus(c, convolve.KernelPrewitt.Kernel(), padding)
}

// SobelChannel is the Sobel gradient magnitude.
func SobelChannel(c imagery.Channel, padding convolve.PaddingStrategy) imagery.Channel {
	return GradientModulus(c, convolve.KernelSobel.Kernel(), padding)
}

// Directional applies the directional derivative to every channel.
func Directional(img *imagery.Image, kernel convolve.FamousKernel, dir convolve.Direction, padding convolve.PaddingStrategy) (*imagery.Image, error) {
	channels, results, err := img.ApplyOverChannels(func(c imagery.Channel) (imagery.Channel, imagery.ChannelResult, error) {
		return DirectionalChannel(c, kernel.Kernel(), dir, padding), nil, nil
	})
	if err != nil {
		return nil, err
	}
	record := imagery.Transformation{
		Name: "directional",
		Major: map[string]any{
			"kernel":    kernel.String(),
			"direction": dir.String(),
		},
		Minor:    map[string]any{"padding": padding.String()},
		Channels: results,
	}
	return img.Transform(transformedName(img, "directional"), channels, record), nil
}

// HighPass applies the high-pass sharpening mask to every channel.
func HighPass(img *imagery.Image, kernelSize int, padding convolve.PaddingStrategy) (*imagery.Image, error) {
	channels, results, err := img.ApplyOverChannels(func(c imagery.Channel) (imagery.Channel, imagery.ChannelResult, error) {
		out, err := HighPassChannel(c, kernelSize, padding)
		return out, nil, err
	})
	if err != nil {
		return nil, err
	}
	record := imagery.Transformation{
		Name:     "high_pass",
		Major:    map[string]any{"kernel_size": kernelSize},
		Minor:    map[string]any{"padding": padding.String()},
		Channels: results,
	}
	return img.Transform(transformedName(img, "high_pass"), channels, record), nil
}

// Prewitt applies the Prewitt gradient magnitude to every channel.
func Prewitt(img *imagery.Image, padding convolve.PaddingStrategy) (*imagery.Image, error) {
	return gradientImage(img, "prewitt", convolve.KernelPrewitt, padding)
}

// Sobel applies the Sobel gradient magnitude to every channel.
func Sobel(img *imagery.Image, padding convolve.PaddingStrategy) (*imagery.Image, error) {
	return gradientImage(img, "sobel", convolve.KernelSobel, padding)
}

func gradientImage(img *imagery.Image, name string, kernel convolve.FamousKernel, padding convolve.PaddingStrategy) (*imagery.Image, error) {
	channels, results, err := img.ApplyOverChannels(func(c imagery.Channel) (imagery.Channel, imagery.ChannelResult, error) {
		return GradientModulus(c, kernel.Kernel(), padding), nil, nil
	})
	if err != nil {
		return nil, err
	}
	record := imagery.Transformation{
		Name:     name,
		Major:    map[string]any{},
		Minor:    map[string]any{"padding": padding.String()},
		Channels: results,
	}
	return img.Transform(transformedName(img, name), channels, record), nil
}

func transformedName(img *imagery.Image, op string) string {
	return fmt.Sprintf("%s_%s", img.Name, op)
}
