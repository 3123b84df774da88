// Package imagery defines the shared data model of the transformation engine.
//
// The central type is Image: a named stack of one or three float64 channels of
// identical spatial shape, together with the ordered history of every
// transformation applied to it. Transformations never mutate an Image in
// place; they return a new Image whose history has one more record appended.
// That append-only history is what makes "undo" and inspection of previous
// frame state possible in the outer application, and it carries the resumable
// state needed by the inductive active-contour mode.
//
// # Coordinate System
//
// Channels are indexed channel[y][x], 0-based, with (0,0) at the top-left
// corner. X increases rightward, Y increases downward. A Point therefore holds
// (Y, X) in that order, matching row-major iteration.
//
// # Value Range
//
// Pixel values are float64 working precision. Loaded images start in
// [0, MaxColor]; intermediate transformation outputs may leave that range
// (gradients are signed, accumulators unbounded) and are brought back into
// [0, MaxColor] by Normalize before display or thresholding.
//
// # Channel Results and Overlays
//
// Each transformation produces one ChannelResult per processed channel: a
// family-specific struct exposing display metrics through Public() and
// visualization primitives through Overlay(). Overlay commands (line, circle,
// point scatter) are side artifacts for external rendering, never inputs to
// later transformations, with one exception: the active-contour result is the
// seed of the next frame's inductive run.
package imagery
