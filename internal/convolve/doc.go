// Package convolve implements the sliding-window primitive every linear
// filter in the engine is built on, together with the kernel catalog.
//
// WeightedSum performs plain 2-D correlation: for every output pixel the
// neighborhood of the kernel's shape, centered on the pixel, is multiplied
// element-wise by the kernel and summed. Out-of-bounds neighbors are resolved
// by a PaddingStrategy, which guarantees output shape always equals input
// shape. No detector extracts neighborhoods on its own; routing everything
// through this package keeps border behavior consistent across the whole
// catalog.
//
// The kernel catalog is a closed set of named constant matrices (Prewitt,
// Sobel, Laplace, the SUSAN circular mask) plus generators for the parametric
// kernels (Gaussian, Laplacian-of-Gaussian, high-pass) and the ring rotation
// used to align a vertical kernel with a compass direction.
package convolve
