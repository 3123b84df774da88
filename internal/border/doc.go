// Package border implements the stateless edge and feature detectors of the
// catalog: directional derivatives, high-pass sharpening, Prewitt and Sobel
// gradient magnitude, Laplacian and Laplacian-of-Gaussian zero-crossing
// detection, the SUSAN corner response, and Canny with hysteresis.
//
// Every detector comes in two flavors: a pure per-channel function operating
// on a single imagery.Channel (the algorithm itself), and an image-level
// wrapper that runs the channel function over every plane of an Image and
// returns a new Image with a history record appended. The channel functions
// read nothing beyond their explicit inputs, so multi-channel images process
// their planes concurrently.
//
// All neighborhood access goes through the convolve package; no detector
// re-implements border handling.
package border
