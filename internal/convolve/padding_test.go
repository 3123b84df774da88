package convolve

import (
	"testing"

	"pixelscope/internal/imagery"
)

func testChannel() imagery.Channel {
	return imagery.Channel{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
}

func TestSample_InBounds(t *testing.T) {
	c := testChannel()
	for _, p := range []PaddingStrategy{PaddingZero, PaddingEdge, PaddingReflect, PaddingWrap} {
		if got := p.Sample(c, 1, 2); got != 6 {
			t.Errorf("%v: got %v, want 6", p, got)
		}
	}
}

func TestSample_OutOfBounds(t *testing.T) {
	c := testChannel()
	tests := []struct {
		name    string
		padding PaddingStrategy
		y, x    int
		want    float64
	}{
		{"zero above", PaddingZero, -1, 1, 0},
		{"zero right", PaddingZero, 1, 3, 0},
		{"edge above", PaddingEdge, -1, 1, 2},
		{"edge corner", PaddingEdge, -2, -2, 1},
		{"edge below right", PaddingEdge, 5, 5, 9},
		{"reflect above", PaddingReflect, -1, 0, 1},
		{"reflect below", PaddingReflect, 3, 0, 7},
		{"reflect deep", PaddingReflect, -2, 0, 4},
		{"wrap above", PaddingWrap, -1, 0, 7},
		{"wrap right", PaddingWrap, 0, 3, 1},
		{"wrap far", PaddingWrap, 4, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.padding.Sample(c, tt.y, tt.x); got != tt.want {
				t.Errorf("Sample(%d, %d): got %v, want %v", tt.y, tt.x, got, tt.want)
			}
		})
	}
}

func TestReflect_SingleRow(t *testing.T) {
	c := imagery.Channel{{5, 6}}
	if got := PaddingReflect.Sample(c, -3, 0); got != 5 {
		t.Errorf("got %v, want 5", got)
	}
}

func TestPaddingFromString(t *testing.T) {
	for _, name := range []string{"zero", "edge", "reflect", "wrap"} {
		p, err := PaddingFromString(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if p.String() != name {
			t.Errorf("Round trip: got %s, want %s", p.String(), name)
		}
	}

	if _, err := PaddingFromString("mirror"); err == nil {
		t.Error("Expected error for unknown padding name")
	}
}
