package border

import (
	"math"

	"pixelscope/internal/convolve"
	"pixelscope/internal/imagery"
)

// SUSAN similarity threshold: a masked neighbor within this absolute
// difference of the center counts as part of the univalue segment.
const susanSimilarity = 15

// SUSAN response bands.
const (
	susanWeakCorner   = 63
	susanStrongCorner = 255
)

// SusanChannel computes the SUSAN corner response. For every pixel the
// circular 7x7 mask is compared against the center value; the similarity
// ratio 1 - similar/maskCells is banded into flat (0), weak corner (63) and
// strong corner (255) responses.
func SusanChannel(c imagery.Channel, padding convolve.PaddingStrategy) imagery.Channel {
	mask := convolve.SusanMask()
	rows, cols := mask.Rows(), mask.Cols()
	cells := float64(rows * cols)

	out := imagery.NewChannel(c.Height(), c.Width())
	for y := range out {
		for x := range out[y] {
			center := c[y][x]
			similar := 0
			for my := 0; my < rows; my++ {
				for mx := 0; mx < cols; mx++ {
					v := mask[my][mx] * padding.Sample(c, y+my-rows/2, x+mx-cols/2)
					if math.Abs(v-center) < susanSimilarity {
						similar++
					}
				}
			}
			ratio := 1 - float64(similar)/cells
			switch {
			case ratio >= 0.4 && ratio < 0.65:
				out[y][x] = susanWeakCorner
			case ratio >= 0.65 && ratio < 0.85:
				out[y][x] = susanStrongCorner
			default:
				out[y][x] = 0
			}
		}
	}
	return out
}

// Susan applies the SUSAN corner response to every channel.
func Susan(img *imagery.Image, padding convolve.PaddingStrategy) (*imagery.Image, error) {
	channels, results, err := img.ApplyOverChannels(func(c imagery.Channel) (imagery.Channel, imagery.ChannelResult, error) {
		return SusanChannel(c, padding), nil, nil
	})
	if err != nil {
		return nil, err
	}
	record := imagery.Transformation{
		Name:     "susan",
		Major:    map[string]any{},
		Minor:    map[string]any{"padding": padding.String()},
		Channels: results,
	}
	return img.Transform(transformedName(img, "susan"), channels, record), nil
}
