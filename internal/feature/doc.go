// Package feature implements the parameter-space detectors of the catalog:
// the Harris corner response and the Hough transform for lines and circles.
//
// The Hough accumulators are the most expensive operations in the engine,
// O(parameter cells x edge pixels). Cells are voted independently, so
// accumulation is spread over a bounded worker pool and the outer parameter
// loop honors context cancellation. Selection keeps every cell whose vote
// count exceeds a ratio of the maximum, then converts the surviving
// parameters into overlay geometry; a fitted line that does not cross the
// image border in exactly two points is a degenerate configuration reported
// as ErrDegenerateLine rather than silently skipped.
package feature
