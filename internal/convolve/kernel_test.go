package convolve

import (
	"math"
	"testing"
)

func kernelsEqual(a, b Kernel) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for y := range a {
		for x := range a[y] {
			if math.Abs(a[y][x]-b[y][x]) > 1e-12 {
				return false
			}
		}
	}
	return true
}

func TestRotate90_PrewittXToY(t *testing.T) {
	x := KernelPrewitt.Kernel()
	want := Kernel{
		{-1, -1, -1},
		{0, 0, 0},
		{1, 1, 1},
	}
	if got := x.Rotate90(); !kernelsEqual(got, want) {
		t.Errorf("Rotate90:\ngot  %v\nwant %v", got, want)
	}
}

func TestRotate90_FourTimesIsIdentity(t *testing.T) {
	k := Kernel{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	got := k.Rotate90().Rotate90().Rotate90().Rotate90()
	if !kernelsEqual(got, k) {
		t.Errorf("Four quarter turns should be identity, got %v", got)
	}
}

func TestRotateRing_PrewittDiagonal(t *testing.T) {
	// One ring position is a 45 degree turn: the vertical border operator
	// becomes the positive-diagonal one.
	vertical := KernelPrewitt.Kernel()
	want := Kernel{
		{-1, -1, 0},
		{-1, 0, 1},
		{0, 1, 1},
	}
	if got := vertical.RotateRing(1); !kernelsEqual(got, want) {
		t.Errorf("RotateRing(1):\ngot  %v\nwant %v", got, want)
	}
}

func TestRotateRing_FullCycleIsIdentity(t *testing.T) {
	k := Kernel{
		{1, 2, 3},
		{8, 0, 4},
		{7, 6, 5},
	}
	if got := k.RotateRing(8); !kernelsEqual(got, k) {
		t.Errorf("Full ring cycle should be identity, got %v", got)
	}
	if got := k.RotateRing(-8); !kernelsEqual(got, k) {
		t.Errorf("Negative full cycle should be identity, got %v", got)
	}
}

func TestRotateRing_FourQuarterTurnsIsIdentity(t *testing.T) {
	k := KernelSobel.Kernel()
	got := k.Clone()
	for i := 0; i < 4; i++ {
		got = got.RotateRing(2)
	}
	if !kernelsEqual(got, k) {
		t.Errorf("Four 90 degree ring turns should be identity, got %v", got)
	}
}

func TestRotateRing_CenterNeverMoves(t *testing.T) {
	k := Kernel{
		{1, 1, 1},
		{1, 42, 1},
		{1, 1, 1},
	}
	for shift := 0; shift < 8; shift++ {
		if got := k.RotateRing(shift); got[1][1] != 42 {
			t.Errorf("shift %d moved the center: %v", shift, got[1][1])
		}
	}
}

func TestRotateRing_RollsEveryRing(t *testing.T) {
	// A 5x5 kernel has a 16-cell outer ring and an 8-cell inner ring; both
	// must roll by the same number of positions.
	k := make(Kernel, 5)
	for y := range k {
		k[y] = make([]float64, 5)
	}
	k[0][0] = 1 // outer ring, position 0
	k[1][1] = 2 // inner ring, position 0

	got := k.RotateRing(1)
	if got[0][1] != 1 {
		t.Errorf("Outer ring cell did not advance: %v", got)
	}
	if got[1][2] != 2 {
		t.Errorf("Inner ring cell did not advance: %v", got)
	}
}

func TestDirectionAlign_Shifts(t *testing.T) {
	vertical := KernelPrewitt.Kernel()
	tests := []struct {
		dir   Direction
		shift int
	}{
		{DirVertical, 0},
		{DirPositiveDiagonal, 1},
		{DirHorizontal, 2},
		{DirNegativeDiagonal, 3},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			want := vertical.RotateRing(tt.shift)
			if got := tt.dir.Align(vertical); !kernelsEqual(got, want) {
				t.Errorf("Align:\ngot  %v\nwant %v", got, want)
			}
		})
	}
}

func TestDirectionAlign_HorizontalMatchesRotate90(t *testing.T) {
	// Two ring positions equal a quarter turn for a 3x3 kernel, so the
	// horizontal alignment coincides with the matrix rotation.
	vertical := KernelPrewitt.Kernel()
	want := vertical.Rotate90()
	if got := DirHorizontal.Align(vertical); !kernelsEqual(got, want) {
		t.Errorf("Horizontal alignment:\ngot  %v\nwant %v", got, want)
	}
}

func TestDirectionFromString(t *testing.T) {
	d, err := DirectionFromString("POSITIVE_DIAGONAL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d != DirPositiveDiagonal {
		t.Errorf("got %v, want %v", d, DirPositiveDiagonal)
	}

	if _, err := DirectionFromString("sideways"); err == nil {
		t.Error("Expected error for unknown direction")
	}
}

func TestDirectionFromAngle(t *testing.T) {
	tests := []struct {
		angle int
		want  Direction
	}{
		{0, DirHorizontal},
		{45, DirPositiveDiagonal},
		{90, DirVertical},
		{135, DirNegativeDiagonal},
	}
	for _, tt := range tests {
		got, err := DirectionFromAngle(tt.angle)
		if err != nil {
			t.Fatalf("angle %d: %v", tt.angle, err)
		}
		if got != tt.want {
			t.Errorf("angle %d: got %v, want %v", tt.angle, got, tt.want)
		}
	}

	if _, err := DirectionFromAngle(30); err == nil {
		t.Error("Expected error for unquantized angle")
	}
}

func TestFamousKernelFromString(t *testing.T) {
	for _, name := range []string{"prewitt", "sobel", "laplace", "juliana"} {
		f, err := FamousKernelFromString(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if f.String() != name {
			t.Errorf("Round trip: got %s, want %s", f.String(), name)
		}
	}

	if _, err := FamousKernelFromString("scharr"); err == nil {
		t.Error("Expected error for unknown kernel name")
	}
}

func TestHighPassKernel(t *testing.T) {
	k, err := HighPassKernel(3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if k[1][1] != 8.0/3.0 {
		t.Errorf("Center weight: got %v, want %v", k[1][1], 8.0/3.0)
	}
	if k[0][0] != -1.0/3.0 {
		t.Errorf("Edge weight: got %v, want %v", k[0][0], -1.0/3.0)
	}

	// The weights cancel, so flat regions map to zero.
	sum := 0.0
	for _, row := range k {
		for _, v := range row {
			sum += v
		}
	}
	if math.Abs(sum) > 1e-12 {
		t.Errorf("Weights should sum to zero, got %v", sum)
	}
}

func TestHighPassKernel_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -3, 2, 4} {
		if _, err := HighPassKernel(size); err == nil {
			t.Errorf("size %d: expected error", size)
		}
	}
}

func TestGaussKernel(t *testing.T) {
	k, err := GaussKernel(1.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if k.Rows() != 5 || k.Cols() != 5 {
		t.Fatalf("Size: got %dx%d, want 5x5", k.Rows(), k.Cols())
	}

	sum := 0.0
	for _, row := range k {
		for _, v := range row {
			sum += v
		}
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("Weights should sum to one, got %v", sum)
	}

	// Radially symmetric with the peak at the center.
	if k[0][0] != k[4][4] || k[0][4] != k[4][0] {
		t.Error("Kernel should be symmetric")
	}
	if k[2][2] <= k[0][0] {
		t.Error("Center should carry the largest weight")
	}

	if _, err := GaussKernel(0); err == nil {
		t.Error("Expected error for non-positive sigma")
	}
}

func TestLoGKernel(t *testing.T) {
	k, err := LoGKernel(1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if k.Rows() != 11 || k.Cols() != 11 {
		t.Fatalf("Size: got %dx%d, want 11x11", k.Rows(), k.Cols())
	}

	// Mexican hat: negative well at the center, positive ring around it.
	if k[5][5] >= 0 {
		t.Errorf("Center should be negative, got %v", k[5][5])
	}
	if k[5][2] <= 0 {
		t.Errorf("Ring should be positive, got %v", k[5][2])
	}

	if _, err := LoGKernel(-1); err == nil {
		t.Error("Expected error for non-positive sigma")
	}
}
