package feature

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"pixelscope/internal/imagery"
)

// ErrDegenerateLine reports a fitted Hough line that does not intersect the
// image border in exactly two points. It signals a parameter-range or
// threshold problem upstream and is not retried.
var ErrDegenerateLine = errors.New("fitted line is degenerate")

// HoughResult is the per-channel outcome of a Hough accumulation: the
// parameter tuples of every selected cell, in accumulator order, plus one
// overlay command per tuple.
type HoughResult struct {
	// Best holds the fitted parameters: (rho, theta) pairs for lines,
	// (radius, centerY, centerX) triples for circles.
	Best [][]float64

	overlays []imagery.DrawCmd
}

// Public exposes the fitted parameters and their count.
func (r *HoughResult) Public() map[string]any {
	return map[string]any{
		"best":  r.Best,
		"count": len(r.Best),
	}
}

// Overlay returns one drawing command per fitted parameter tuple.
func (r *HoughResult) Overlay() []imagery.DrawCmd {
	return r.overlays
}

// edgePoints lists the coordinates of every marked pixel of a binary edge
// channel (value > 0).
func edgePoints(c imagery.Channel) []imagery.Point {
	var points []imagery.Point
	for y, row := range c {
		for x, v := range row {
			if v > 0 {
				points = append(points, imagery.Point{Y: y, X: x})
			}
		}
	}
	return points
}

// forEachCell runs vote(i) for i in [0, n) over a bounded worker pool,
// checking the context between cells. Cells write disjoint accumulator rows,
// so no locking is needed beyond the final Wait.
func forEachCell(ctx context.Context, n int, vote func(i int)) error {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				if ctx.Err() != nil {
					continue
				}
				vote(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return ctx.Err()
}

// houghLinesChannel accumulates votes over the (rho, theta) grid. A cell's
// count is the number of edge pixels satisfying
// |rho - y*sin(theta) - x*cos(theta)| < threshold.
func houghLinesChannel(ctx context.Context, c imagery.Channel, thetas, rhos []float64, threshold, mostFittedRatio float64) (imagery.Channel, imagery.ChannelResult, error) {
	points := edgePoints(c)
	sins := make([]float64, len(thetas))
	coss := make([]float64, len(thetas))
	for j, t := range thetas {
		sins[j] = math.Sin(t)
		coss[j] = math.Cos(t)
	}

	acum := make([][]int, len(rhos))
	err := forEachCell(ctx, len(rhos), func(i int) {
		row := make([]int, len(thetas))
		for j := range thetas {
			count := 0
			for _, p := range points {
				if math.Abs(rhos[i]-float64(p.Y)*sins[j]-float64(p.X)*coss[j]) < threshold {
					count++
				}
			}
			row[j] = count
		}
		acum[i] = row
	})
	if err != nil {
		return nil, nil, err
	}

	maxCount := 0
	for _, row := range acum {
		for _, v := range row {
			if v > maxCount {
				maxCount = v
			}
		}
	}

	result := &HoughResult{}
	for i, row := range acum {
		for j, v := range row {
			if float64(v) > mostFittedRatio*float64(maxCount) {
				rho, theta := rhos[i], thetas[j]
				line, err := borderPoints(rho, theta, c.Height(), c.Width())
				if err != nil {
					return nil, nil, err
				}
				result.Best = append(result.Best, []float64{rho, theta})
				result.overlays = append(result.overlays, line)
			}
		}
	}
	return c, result, nil
}

// borderPoints computes the two image-border intersection points of the line
// rho = y*sin(theta) + x*cos(theta). Lines with theta close to zero run
// parallel to the Y axis and are special-cased; every other line must cross
// the border in exactly two points.
func borderPoints(rho, theta float64, height, width int) (imagery.LineCmd, error) {
	if math.Abs(theta) < 1e-8 {
		x := math.Round(rho)
		return imagery.LineCmd{Y0: 0, X0: x, Y1: float64(height - 1), X1: x}, nil
	}

	maxY := float64(height - 1)
	maxX := float64(width - 1)
	sin, cos := math.Sin(theta), math.Cos(theta)

	type pt struct{ y, x float64 }
	var ans []pt
	if x0 := rho / cos; 0 < x0 && x0 < maxX {
		ans = append(ans, pt{0, x0})
	}
	if xf := (rho - maxY*sin) / cos; 0 < xf && xf < maxX {
		ans = append(ans, pt{maxY, xf})
	}
	if y0 := rho / sin; 0 < y0 && y0 < maxY {
		ans = append(ans, pt{y0, 0})
	}
	if yf := (rho - maxX*cos) / sin; 0 < yf && yf < maxY {
		ans = append(ans, pt{yf, maxX})
	}

	if len(ans) != 2 {
		return imagery.LineCmd{}, fmt.Errorf("%w: %d border intersections for rho=%g theta=%g",
			ErrDegenerateLine, len(ans), rho, theta)
	}
	return imagery.LineCmd{Y0: ans[0].y, X0: ans[0].x, Y1: ans[1].y, X1: ans[1].x}, nil
}

// HoughLines detects straight lines in a binary edge image. Angles are given
// in degrees; rho is discretized by its LinRange. The channel data passes
// through unchanged, the fit lives in the channel results and overlays.
func HoughLines(ctx context.Context, img *imagery.Image, thetaDegrees []float64, rho imagery.LinRange, threshold, mostFittedRatio float64) (*imagery.Image, error) {
	thetas := make([]float64, len(thetaDegrees))
	for i, d := range thetaDegrees {
		thetas[i] = d * math.Pi / 180
	}
	rhos := rho.Linspace()

	channels, results, err := img.ApplyOverChannels(func(c imagery.Channel) (imagery.Channel, imagery.ChannelResult, error) {
		return houghLinesChannel(ctx, c, thetas, rhos, threshold, mostFittedRatio)
	})
	if err != nil {
		return nil, err
	}
	record := imagery.Transformation{
		Name:     "hough_lines",
		Major:    map[string]any{"theta": thetaDegrees, "rho": rho},
		Minor:    map[string]any{"threshold": threshold, "most_fitted_ratio": mostFittedRatio},
		Channels: results,
	}
	return img.Transform(fmt.Sprintf("%s_hough_lines", img.Name), channels, record), nil
}

// HoughCircles detects circles in a binary edge image, discretizing radius
// and center coordinates by three LinRanges. The channel data passes through
// unchanged, the fit lives in the channel results and overlays.
func HoughCircles(ctx context.Context, img *imagery.Image, radius, xAxis, yAxis imagery.LinRange, threshold, mostFittedRatio float64) (*imagery.Image, error) {
	radii := radius.Linspace()
	xs := xAxis.Linspace()
	ys := yAxis.Linspace()

	type center struct{ y, x float64 }
	centers := make([]center, 0, len(xs)*len(ys))
	for _, cy := range ys {
		for _, cx := range xs {
			centers = append(centers, center{cy, cx})
		}
	}

	channelFn := func(c imagery.Channel) (imagery.Channel, imagery.ChannelResult, error) {
		points := edgePoints(c)
		acum := make([][]int, len(radii))
		err := forEachCell(ctx, len(radii), func(i int) {
			r2 := radii[i] * radii[i]
			row := make([]int, len(centers))
			for j, ct := range centers {
				count := 0
				for _, p := range points {
					dy := float64(p.Y) - ct.y
					dx := float64(p.X) - ct.x
					if math.Abs(dy*dy+dx*dx-r2) < threshold {
						count++
					}
				}
				row[j] = count
			}
			acum[i] = row
		})
		if err != nil {
			return nil, nil, err
		}

		maxCount := 0
		for _, row := range acum {
			for _, v := range row {
				if v > maxCount {
					maxCount = v
				}
			}
		}

		result := &HoughResult{}
		for i, row := range acum {
			for j, v := range row {
				if float64(v) > mostFittedRatio*float64(maxCount) {
					r, ct := radii[i], centers[j]
					result.Best = append(result.Best, []float64{r, ct.y, ct.x})
					result.overlays = append(result.overlays, imagery.CircleCmd{
						CenterY: ct.y,
						CenterX: ct.x,
						Radius:  r,
					})
				}
			}
		}
		return c, result, nil
	}

	channels, results, err := img.ApplyOverChannels(channelFn)
	if err != nil {
		return nil, err
	}
	record := imagery.Transformation{
		Name:     "hough_circles",
		Major:    map[string]any{"radius": radius, "x_axis": xAxis, "y_axis": yAxis},
		Minor:    map[string]any{"threshold": threshold, "most_fitted_ratio": mostFittedRatio},
		Channels: results,
	}
	return img.Transform(fmt.Sprintf("%s_hough_circles", img.Name), channels, record), nil
}
