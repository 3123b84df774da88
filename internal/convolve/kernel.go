package convolve

import (
	"fmt"
	"math"
	"strings"
)

// Kernel is a small 2-D weight matrix, indexed kernel[y][x].
type Kernel [][]float64

// Rows returns the kernel height.
func (k Kernel) Rows() int { return len(k) }

// Cols returns the kernel width.
func (k Kernel) Cols() int {
	if len(k) == 0 {
		return 0
	}
	return len(k[0])
}

// Clone returns a deep copy.
func (k Kernel) Clone() Kernel {
	out := make(Kernel, len(k))
	for y, row := range k {
		out[y] = make([]float64, len(row))
		copy(out[y], row)
	}
	return out
}

// Rotate90 rotates the kernel 90 degrees clockwise. Gradient operators use it
// to derive the Y kernel from the named X kernel.
func (k Kernel) Rotate90() Kernel {
	rows, cols := k.Rows(), k.Cols()
	out := make(Kernel, cols)
	for y := 0; y < cols; y++ {
		out[y] = make([]float64, rows)
		for x := 0; x < rows; x++ {
			out[y][x] = k[rows-1-x][y]
		}
	}
	return out
}

// RotateRing rolls every concentric ring of a square kernel by shift
// positions, clockwise. For a 3x3 kernel one position corresponds to a 45
// degree rotation; the center cell never moves.
func (k Kernel) RotateRing(shift int) Kernel {
	n := k.Rows()
	out := k.Clone()
	for level := 0; level < (n+1)/2; level++ {
		ring := ringCoords(n, level)
		if len(ring) <= 1 {
			continue
		}
		s := mod(shift, len(ring))
		for i, src := range ring {
			dst := ring[(i+s)%len(ring)]
			out[dst[0]][dst[1]] = k[src[0]][src[1]]
		}
	}
	return out
}

// ringCoords lists the (y, x) cells of the concentric ring at the given depth
// of an n x n matrix, clockwise starting at the top-left corner.
func ringCoords(n, level int) [][2]int {
	lo, hi := level, n-1-level
	if lo > hi {
		return nil
	}
	if lo == hi {
		return [][2]int{{lo, lo}}
	}
	var ring [][2]int
	for x := lo; x <= hi; x++ {
		ring = append(ring, [2]int{lo, x})
	}
	for y := lo + 1; y < hi; y++ {
		ring = append(ring, [2]int{y, hi})
	}
	for x := hi; x >= lo; x-- {
		ring = append(ring, [2]int{hi, x})
	}
	for y := hi - 1; y > lo; y-- {
		ring = append(ring, [2]int{y, lo})
	}
	return ring
}

// Direction names the four compass alignments of a 3x3 kernel.
type Direction int

const (
	DirVertical Direction = iota
	DirPositiveDiagonal
	DirHorizontal
	DirNegativeDiagonal
)

var directionNames = map[Direction]string{
	DirVertical:         "vertical",
	DirPositiveDiagonal: "positive_diagonal",
	DirHorizontal:       "horizontal",
	DirNegativeDiagonal: "negative_diagonal",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// DirectionFromString resolves a direction by name.
func DirectionFromString(name string) (Direction, error) {
	for d, n := range directionNames {
		if n == strings.ToLower(name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%q is not a supported direction", name)
}

// DirectionFromAngle maps a gradient angle in degrees to its direction.
// Only the four quantized angles 0, 45, 90 and 135 are valid.
func DirectionFromAngle(angle int) (Direction, error) {
	switch angle {
	case 0:
		return DirHorizontal, nil
	case 45:
		return DirPositiveDiagonal, nil
	case 90:
		return DirVertical, nil
	case 135:
		return DirNegativeDiagonal, nil
	default:
		return 0, fmt.Errorf("%d is not a valid direction angle", angle)
	}
}

// shift is the ring roll that aligns a vertically oriented kernel with the
// direction: each position is a further 45 degree rotation.
func (d Direction) shift() int {
	switch d {
	case DirVertical:
		return 0
	case DirPositiveDiagonal:
		return 1
	case DirHorizontal:
		return 2
	default:
		return 3
	}
}

// Align rotates a vertically oriented kernel so it responds along the
// direction.
func (d Direction) Align(vertical Kernel) Kernel {
	return vertical.RotateRing(d.shift())
}

// Mask is the 3x3 picket of the direction: ones along the direction's axis,
// center included. Canny uses it to select the two neighbors a pixel competes
// with during non-maximum suppression.
func (d Direction) Mask() Kernel {
	switch d {
	case DirVertical:
		return Kernel{
			{0, 1, 0},
			{0, 1, 0},
			{0, 1, 0},
		}
	case DirPositiveDiagonal:
		return Kernel{
			{0, 0, 1},
			{0, 1, 0},
			{1, 0, 0},
		}
	case DirHorizontal:
		return Kernel{
			{0, 0, 0},
			{1, 1, 1},
			{0, 0, 0},
		}
	default:
		return Kernel{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		}
	}
}

// FamousKernel names the fixed operators of the catalog.
type FamousKernel int

const (
	KernelPrewitt FamousKernel = iota
	KernelSobel
	KernelLaplace
	KernelJuliana
)

var famousNames = map[FamousKernel]string{
	KernelPrewitt: "prewitt",
	KernelSobel:   "sobel",
	KernelLaplace: "laplace",
	KernelJuliana: "juliana",
}

func (f FamousKernel) String() string {
	if name, ok := famousNames[f]; ok {
		return name
	}
	return fmt.Sprintf("kernel(%d)", int(f))
}

// FamousKernelFromString resolves a named operator.
func FamousKernelFromString(name string) (FamousKernel, error) {
	for f, n := range famousNames {
		if n == strings.ToLower(name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%q is not a supported kernel", name)
}

// Kernel returns the operator's matrix. Gradient operators are the X
// derivative; rotate 90 degrees for Y.
func (f FamousKernel) Kernel() Kernel {
	switch f {
	case KernelPrewitt:
		return Kernel{
			{-1, 0, 1},
			{-1, 0, 1},
			{-1, 0, 1},
		}
	case KernelSobel:
		return Kernel{
			{-1, 0, 1},
			{-2, 0, 2},
			{-1, 0, 1},
		}
	case KernelLaplace:
		return Kernel{
			{0, -1, 0},
			{-1, 4, -1},
			{0, -1, 0},
		}
	default:
		return Kernel{
			{1, 1, -1},
			{1, -2, -1},
			{1, 1, -1},
		}
	}
}

// SusanMask is the circular 7x7 neighborhood mask of the SUSAN detector.
func SusanMask() Kernel {
	return Kernel{
		{0, 0, 1, 1, 1, 0, 0},
		{0, 1, 1, 1, 1, 1, 0},
		{1, 1, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1, 1, 1},
		{0, 1, 1, 1, 1, 1, 0},
		{0, 0, 1, 1, 1, 0, 0},
	}
}

// HighPassKernel builds the n x n sharpening mask whose center weight is
// (n^2-1)/n and every other cell -1/n.
func HighPassKernel(size int) (Kernel, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("high-pass kernel size must be a positive odd number, got %d", size)
	}
	k := make(Kernel, size)
	for y := range k {
		k[y] = make([]float64, size)
		for x := range k[y] {
			k[y][x] = -1 / float64(size)
		}
	}
	k[size/2][size/2] = float64(size*size-1) / float64(size)
	return k, nil
}

// GaussKernel builds a normalized Gaussian smoothing kernel of standard
// deviation sigma, sized 2*ceil(sigma)+1 so the support grows with sigma.
func GaussKernel(sigma float64) (Kernel, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("gaussian sigma must be positive, got %g", sigma)
	}
	size := 2*int(math.Ceil(sigma)) + 1
	half := size / 2
	k := make(Kernel, size)
	sum := 0.0
	for y := range k {
		k[y] = make([]float64, size)
		for x := range k[y] {
			dy, dx := float64(y-half), float64(x-half)
			v := math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			k[y][x] = v
			sum += v
		}
	}
	for y := range k {
		for x := range k[y] {
			k[y][x] /= sum
		}
	}
	return k, nil
}

// LoGKernel builds the Laplacian-of-Gaussian kernel for the given sigma from
// the closed-form second derivative of the Gaussian. The kernel is square
// with side floor(10*sigma + 1).
func LoGKernel(sigma float64) (Kernel, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("log sigma must be positive, got %g", sigma)
	}
	size := int(sigma*10 + 1)
	half := size / 2
	norm := math.Sqrt(2*math.Pi) * sigma * sigma * sigma
	k := make(Kernel, size)
	for y := range k {
		k[y] = make([]float64, size)
		for x := range k[y] {
			dy, dx := float64(y-half), float64(x-half)
			s := (dx*dx + dy*dy) / (sigma * sigma)
			k[y][x] = -((2 - s) / norm) * math.Exp(-s/2)
		}
	}
	return k, nil
}
