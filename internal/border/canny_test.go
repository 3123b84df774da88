package border

import (
	"testing"

	"pixelscope/internal/convolve"
	"pixelscope/internal/imagery"
)

func TestCannyChannel_VerticalStep(t *testing.T) {
	c := verticalStep(6, 8, 4, 100)
	out := CannyChannel(c, 50, 100, convolve.PaddingEdge)

	// The two columns straddling the step carry the full gradient; after
	// normalization they sit at the top of the range and survive the double
	// threshold. Everything else is suppressed.
	for y := 0; y < 6; y++ {
		if out[y][3] != imagery.MaxColor || out[y][4] != imagery.MaxColor {
			t.Errorf("Row %d: edge columns got %v and %v, want %v",
				y, out[y][3], out[y][4], imagery.MaxColor)
		}
		for _, x := range []int{0, 1, 6, 7} {
			if out[y][x] != 0 {
				t.Errorf("(%d,%d): got %v, want 0", y, x, out[y][x])
			}
		}
	}
}

func TestCannyChannel_ConstantIsDark(t *testing.T) {
	c := constantChannel(6, 6, 130)
	out := CannyChannel(c, 50, 100, convolve.PaddingEdge)
	for y := range out {
		for x := range out[y] {
			if out[y][x] != 0 {
				t.Fatalf("(%d,%d): got %v, want 0", y, x, out[y][x])
			}
		}
	}
}

func TestDragBorder_JoinsConnectedChain(t *testing.T) {
	mod := imagery.Channel{
		{255, 80, 0},
	}
	dragBorder(mod, 50, 100, 0, 1)
	if mod[0][1] != imagery.MaxColor {
		t.Errorf("Undecided pixel next to a border should join it, got %v", mod[0][1])
	}
}

func TestDragBorder_DropsIsolatedPixel(t *testing.T) {
	mod := imagery.Channel{
		{0, 80, 0},
	}
	dragBorder(mod, 50, 100, 0, 1)
	if mod[0][1] != 0 {
		t.Errorf("Isolated undecided pixel should be dropped, got %v", mod[0][1])
	}
}

func TestDragBorder_LeavesDecidedPixels(t *testing.T) {
	mod := imagery.Channel{
		{255, 255, 30},
	}
	dragBorder(mod, 50, 100, 0, 1)
	dragBorder(mod, 50, 100, 0, 2)
	if mod[0][1] != 255 {
		t.Errorf("Decided border pixel should stay, got %v", mod[0][1])
	}
	if mod[0][2] != 30 {
		t.Errorf("Sub-threshold pixel should stay, got %v", mod[0][2])
	}
}

func TestGradientDirection(t *testing.T) {
	tests := []struct {
		name   string
		dy, dx float64
		want   convolve.Direction
	}{
		{"horizontal gradient", 0, 1, convolve.DirHorizontal},
		{"vertical gradient", 1, 0, convolve.DirVertical},
		{"diagonal up", 1, 1, convolve.DirNegativeDiagonal},
		{"diagonal down", -1, 1, convolve.DirPositiveDiagonal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradientDirection(tt.dy, tt.dx); got != tt.want {
				t.Errorf("gradientDirection(%v, %v): got %v, want %v", tt.dy, tt.dx, got, tt.want)
			}
		})
	}
}

func TestCanny_ImageRecord(t *testing.T) {
	img := imagery.NewSquareImage()
	out, err := Canny(img, 50, 100, convolve.PaddingEdge)
	if err != nil {
		t.Fatalf("Canny: %v", err)
	}

	if out.Name != img.Name+"_canny" {
		t.Errorf("Name: got %s", out.Name)
	}
	last, err := out.LastTransformation()
	if err != nil {
		t.Fatalf("Missing record: %v", err)
	}
	if last.Minor["t1"] != 50.0 || last.Minor["t2"] != 100.0 {
		t.Errorf("Record thresholds: got %v / %v", last.Minor["t1"], last.Minor["t2"])
	}
}
