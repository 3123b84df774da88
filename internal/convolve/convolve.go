package convolve

import "pixelscope/internal/imagery"

// Neighborhood extracts the rows x cols window centered on (y, x), resolving
// out-of-bounds cells with the padding strategy. Even window sides extend one
// cell further toward the top-left, matching integer division of the half
// size.
func Neighborhood(c imagery.Channel, rows, cols, y, x int, padding PaddingStrategy) Kernel {
	out := make(Kernel, rows)
	for wy := 0; wy < rows; wy++ {
		out[wy] = make([]float64, cols)
		for wx := 0; wx < cols; wx++ {
			out[wy][wx] = padding.Sample(c, y+wy-rows/2, x+wx-cols/2)
		}
	}
	return out
}

// WeightedSum computes the 2-D correlation of a channel with a kernel: every
// output pixel is the element-wise product of its neighborhood and the
// kernel, summed. The output shape always equals the input shape.
func WeightedSum(c imagery.Channel, kernel Kernel, padding PaddingStrategy) imagery.Channel {
	h, w := c.Height(), c.Width()
	rows, cols := kernel.Rows(), kernel.Cols()
	out := imagery.NewChannel(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for ky := 0; ky < rows; ky++ {
				for kx := 0; kx < cols; kx++ {
					sum += kernel[ky][kx] * padding.Sample(c, y+ky-rows/2, x+kx-cols/2)
				}
			}
			out[y][x] = sum
		}
	}
	return out
}
