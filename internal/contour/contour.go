package contour

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"pixelscope/internal/imagery"
)

// ErrNoConvergence reports an evolution that did not reach a fixpoint within
// the pass budget. The base algorithm has no iteration cap; the budget is a
// safety net, and hitting it means the threshold and reference statistic do
// not separate the region from its background.
var ErrNoConvergence = errors.New("active contour did not converge")

// DefaultPassLimit bounds the number of full evolution passes when the
// caller does not choose one.
const DefaultPassLimit = 10000

// Level-set labels.
const (
	farOutside    = 3
	outerBoundary = 1
	innerBoundary = -1
	farInside     = -3
)

// PointSet is a coordinate index set with O(1) membership.
type PointSet map[imagery.Point]struct{}

func (s PointSet) add(p imagery.Point)      { s[p] = struct{}{} }
func (s PointSet) remove(p imagery.Point)   { delete(s, p) }
func (s PointSet) Has(p imagery.Point) bool { _, ok := s[p]; return ok }

// Points returns the members sorted in row-major order.
func (s PointSet) Points() []imagery.Point {
	points := make([]imagery.Point, 0, len(s))
	for p := range s {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})
	return points
}

// Clone returns an independent copy.
func (s PointSet) Clone() PointSet {
	out := make(PointSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// State is the full level-set state: the label array and the two boundary
// sets. Invariant: Lout holds exactly the pixels labeled +1 and Lin exactly
// those labeled -1.
type State struct {
	Phi  [][]int
	Lout PointSet
	Lin  PointSet
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	phi := make([][]int, len(s.Phi))
	for y, row := range s.Phi {
		phi[y] = make([]int, len(row))
		copy(phi[y], row)
	}
	return State{Phi: phi, Lout: s.Lout.Clone(), Lin: s.Lin.Clone()}
}

// Result is the per-run outcome of a contour evolution. It carries both the
// display metrics and the resumable state: Threshold, Sigma and State seed
// the next frame's inductive run.
type Result struct {
	Threshold float64
	Sigma     []float64
	State     State

	// Passes is the number of full evolution passes until the fixpoint.
	Passes int

	Duration      time.Duration
	TotalDuration time.Duration
	MeanDuration  time.Duration

	overlays []imagery.DrawCmd
}

// Public exposes the display metrics.
func (r *Result) Public() map[string]any {
	out := map[string]any{
		"threshold":      r.Threshold,
		"sigma":          r.Sigma,
		"passes":         r.Passes,
		"duration":       r.Duration,
		"total_duration": r.TotalDuration,
	}
	if r.MeanDuration > 0 {
		out["mean_duration"] = r.MeanDuration
	}
	return out
}

// Overlay returns the boundary scatters: Lout in the outer color, Lin in the
// inner color.
func (r *Result) Overlay() []imagery.DrawCmd {
	return r.overlays
}

// Options tunes an evolution run.
type Options struct {
	// PassLimit bounds the number of full evolution passes; zero selects
	// DefaultPassLimit.
	PassLimit int
}

func (o Options) passLimit() int {
	if o.PassLimit > 0 {
		return o.PassLimit
	}
	return DefaultPassLimit
}

var neighbors4 = [4]imagery.Point{{Y: -1, X: 0}, {Y: 0, X: -1}, {Y: 1, X: 0}, {Y: 0, X: 1}}

// distance is the Euclidean distance, over channels, between the reference
// statistic and the pixel's color.
func distance(img *imagery.Image, p imagery.Point, sigma []float64) float64 {
	sum := 0.0
	for i, c := range img.Channels {
		d := sigma[i] - c[p.Y][p.X]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// hasNeighborWhere reports whether any in-bounds 4-neighbor of p satisfies
// the label predicate.
func hasNeighborWhere(phi [][]int, p imagery.Point, pred func(int) bool) bool {
	h, w := len(phi), len(phi[0])
	for _, d := range neighbors4 {
		y, x := p.Y+d.Y, p.X+d.X
		if y >= 0 && y < h && x >= 0 && x < w && pred(phi[y][x]) {
			return true
		}
	}
	return false
}

// evolve runs the fixpoint iteration in place and returns the number of full
// passes. Each pass sweeps Lout, then Lin; every boundary switch promotes the
// far-region neighbors behind it into the boundary and re-validates opposite
// boundary neighbors, which keeps the narrow band intact.
func evolve(ctx context.Context, img *imagery.Image, threshold float64, sigma []float64, st *State, passLimit int) (int, error) {
	h, w := img.Height(), img.Width()
	inBounds := func(p imagery.Point) bool {
		return p.Y >= 0 && p.Y < h && p.X >= 0 && p.X < w
	}

	passes := 0
	for {
		if err := ctx.Err(); err != nil {
			return passes, err
		}

		changed := false

		// Outer sweep: boundary pixels close enough to the reference
		// statistic switch inward. The worklist grows as neighbors get
		// promoted, so a whole connected advance resolves in one pass.
		work := st.Lout.Points()
		for i := 0; i < len(work); i++ {
			p := work[i]
			if st.Phi[p.Y][p.X] != outerBoundary {
				continue
			}
			if distance(img, p, sigma) >= threshold {
				continue
			}
			st.Lout.remove(p)
			st.Lin.add(p)
			st.Phi[p.Y][p.X] = innerBoundary
			changed = true

			for _, d := range neighbors4 {
				n := imagery.Point{Y: p.Y + d.Y, X: p.X + d.X}
				if !inBounds(n) {
					continue
				}
				switch st.Phi[n.Y][n.X] {
				case farOutside:
					st.Phi[n.Y][n.X] = outerBoundary
					st.Lout.add(n)
					work = append(work, n)
				case innerBoundary:
					// Re-validate: an inner-boundary pixel with no
					// outer-region neighbor left sinks to far inside.
					if !hasNeighborWhere(st.Phi, n, func(v int) bool { return v > 0 }) {
						st.Phi[n.Y][n.X] = farInside
						st.Lin.remove(n)
					}
				}
			}
		}

		// Inner sweep, symmetric: boundary pixels too far from the
		// statistic switch outward.
		work = st.Lin.Points()
		for i := 0; i < len(work); i++ {
			p := work[i]
			if st.Phi[p.Y][p.X] != innerBoundary {
				continue
			}
			if distance(img, p, sigma) < threshold {
				continue
			}
			st.Lin.remove(p)
			st.Lout.add(p)
			st.Phi[p.Y][p.X] = outerBoundary
			changed = true

			for _, d := range neighbors4 {
				n := imagery.Point{Y: p.Y + d.Y, X: p.X + d.X}
				if !inBounds(n) {
					continue
				}
				switch st.Phi[n.Y][n.X] {
				case farInside:
					st.Phi[n.Y][n.X] = innerBoundary
					st.Lin.add(n)
					work = append(work, n)
				case outerBoundary:
					if !hasNeighborWhere(st.Phi, n, func(v int) bool { return v < 0 }) {
						st.Phi[n.Y][n.X] = farOutside
						st.Lout.remove(n)
					}
				}
			}
		}

		passes++
		if !changed {
			return passes, nil
		}
		if passes >= passLimit {
			return passes, fmt.Errorf("%w after %d passes (threshold=%g)", ErrNoConvergence, passes, threshold)
		}
	}
}

// rectBoundary lists the ring of pixels on the border of the inclusive
// rectangle [x0, x1] x [y0, y1].
func rectBoundary(x0, x1, y0, y1 int) PointSet {
	ring := make(PointSet)
	for x := x0; x <= x1; x++ {
		ring.add(imagery.Point{Y: y0, X: x})
		ring.add(imagery.Point{Y: y1, X: x})
	}
	for y := y0; y <= y1; y++ {
		ring.add(imagery.Point{Y: y, X: x0})
		ring.add(imagery.Point{Y: y, X: x1})
	}
	return ring
}

// initialState builds phi and the boundary sets from two concentric
// rectangular rings: the rectangle border is Lout (+1), the ring one pixel
// inside it is Lin (-1), deeper pixels are far inside (-3) and everything
// else far outside (+3).
func initialState(x0, x1, y0, y1, height, width int) State {
	phi := make([][]int, height)
	for y := range phi {
		phi[y] = make([]int, width)
		for x := range phi[y] {
			phi[y][x] = farOutside
		}
	}
	fillRect := func(xa, xb, ya, yb, label int) {
		for y := ya; y <= yb; y++ {
			for x := xa; x <= xb; x++ {
				phi[y][x] = label
			}
		}
	}
	fillRect(x0, x1, y0, y1, outerBoundary)
	fillRect(x0+1, x1-1, y0+1, y1-1, innerBoundary)
	if x0+2 <= x1-2 && y0+2 <= y1-2 {
		fillRect(x0+2, x1-2, y0+2, y1-2, farInside)
	}

	return State{
		Phi:  phi,
		Lout: rectBoundary(x0, x1, y0, y1),
		Lin:  rectBoundary(x0+1, x1-1, y0+1, y1-1),
	}
}

// regionMean computes the per-channel mean intensity over the rectangle
// interior [x0, x1) x [y0, y1), the reference statistic sigma.
func regionMean(img *imagery.Image, x0, x1, y0, y1 int) []float64 {
	sigma := make([]float64, img.NumChannels())
	count := float64((x1 - x0) * (y1 - y0))
	for i, c := range img.Channels {
		sum := 0.0
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				sum += c[y][x]
			}
		}
		sigma[i] = sum / count
	}
	return sigma
}

func boundaryOverlays(st State) []imagery.DrawCmd {
	return []imagery.DrawCmd{
		imagery.ScatterCmd{Points: st.Lout.Points(), Color: imagery.OutlineOuterColor},
		imagery.ScatterCmd{Points: st.Lin.Points(), Color: imagery.OutlineInnerColor},
	}
}

// Outline segments a region of the image seeded from the rectangle spanned
// by p1 and p2: the mean color of the rectangle interior becomes the
// reference statistic and the contour evolves until fixpoint. The pixel data
// passes through unchanged; the converged state lives in the channel result.
func Outline(ctx context.Context, img *imagery.Image, threshold float64, p1, p2 imagery.Point, opts Options) (*imagery.Image, error) {
	x0, x1 := minInt(p1.X, p2.X), maxInt(p1.X, p2.X)
	y0, y1 := minInt(p1.Y, p2.Y), maxInt(p1.Y, p2.Y)
	if !img.ValidPixel(imagery.Point{Y: y0, X: x0}) || !img.ValidPixel(imagery.Point{Y: y1, X: x1}) {
		return nil, fmt.Errorf("outline rectangle (%d,%d)-(%d,%d) exceeds image bounds %dx%d",
			y0, x0, y1, x1, img.Height(), img.Width())
	}
	if x1-x0 < 3 || y1-y0 < 3 {
		return nil, fmt.Errorf("outline rectangle must span at least 4 pixels per side, got %dx%d",
			x1-x0+1, y1-y0+1)
	}

	start := time.Now()
	sigma := regionMean(img, x0, x1, y0, y1)
	st := initialState(x0, x1, y0, y1, img.Height(), img.Width())
	passes, err := evolve(ctx, img, threshold, sigma, &st, opts.passLimit())
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	result := &Result{
		Threshold:     threshold,
		Sigma:         sigma,
		State:         st,
		Passes:        passes,
		Duration:      duration,
		TotalDuration: duration,
		overlays:      boundaryOverlays(st),
	}
	record := imagery.Transformation{
		Name:     "active_outline",
		Major:    map[string]any{"threshold": threshold, "p1": p1, "p2": p2},
		Minor:    map[string]any{},
		Channels: []imagery.ChannelResult{result},
	}
	return img.Transform(fmt.Sprintf("%s_active_outline", img.Name), img.Channels, record), nil
}

// OutlineInductive continues a segmentation across movie frames: the
// converged state of the previous frame's outline seeds the evolution over
// the current frame's data, with no rectangle re-initialization. Frame is
// the zero-based index of the current frame; running duration totals
// accumulate across the sequence.
func OutlineInductive(ctx context.Context, frame int, prev, current *imagery.Image, opts Options) (*imagery.Image, error) {
	last, err := prev.LastTransformation()
	if err != nil {
		return nil, err
	}
	if len(last.Channels) == 0 {
		return nil, fmt.Errorf("previous frame carries no channel results")
	}
	prevResult, ok := last.Channels[0].(*Result)
	if !ok {
		return nil, fmt.Errorf("previous frame's last transformation is %q, not an active outline", last.Name)
	}
	if current.Height() != len(prevResult.State.Phi) || current.Width() != len(prevResult.State.Phi[0]) {
		return nil, fmt.Errorf("frame shape %dx%d does not match previous state %dx%d",
			current.Height(), current.Width(), len(prevResult.State.Phi), len(prevResult.State.Phi[0]))
	}

	start := time.Now()
	st := prevResult.State.Clone()
	passes, err := evolve(ctx, current, prevResult.Threshold, prevResult.Sigma, &st, opts.passLimit())
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	total := prevResult.TotalDuration + duration
	result := &Result{
		Threshold:     prevResult.Threshold,
		Sigma:         prevResult.Sigma,
		State:         st,
		Passes:        passes,
		Duration:      duration,
		TotalDuration: total,
		MeanDuration:  total / time.Duration(frame+1),
		overlays:      boundaryOverlays(st),
	}
	record := imagery.Transformation{
		Name:     "active_outline_inductive",
		Major:    map[string]any{"frame": frame, "threshold": prevResult.Threshold},
		Minor:    map[string]any{},
		Channels: []imagery.ChannelResult{result},
	}
	return current.Transform(fmt.Sprintf("%s_active_outline", current.Name), current.Channels, record), nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
