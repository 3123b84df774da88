// Package contour implements two-phase level-set segmentation: an evolving
// region boundary represented by an integer label array phi and two explicit
// boundary sets, Lout (label +1) and Lin (label -1), over the far-outside
// (+3) and far-inside (-3) regions.
//
// The evolution rule is a fixpoint iteration: outer-boundary pixels whose
// color is close enough to the region's reference statistic switch inward,
// inner-boundary pixels that drift too far switch outward, and the four-label
// narrow band is repaired around every switch so that no far-outside pixel
// ever touches a far-inside pixel directly. A full pass with no switches is
// convergence.
//
// The base algorithm has no termination guarantee for poorly separated
// threshold/statistic configurations, so the engine enforces a pass ceiling
// (ErrNoConvergence) and honors context cancellation between passes.
//
// Outline seeds the state from a rectangle; OutlineInductive chains the
// converged state of one movie frame into the next frame's evolution, which
// is the only place a transformation's internal results feed a later call.
package contour
