// Package distance computes distance transforms of binary masks.
//
// Chamfer metrics use the classic two-pass raster scan: a forward pass from
// the top-left that looks at the four already-visited neighbors above and to
// the left, then a backward pass from the bottom-right over the mirrored
// four. Each pass depends on the pixels it has already written, so both run
// sequentially. Euclidean runs the exact separable squared transform instead.
//
// Both work on a bordered copy of the mask whose halo is filled with a
// constant, so pixels on the image edge need no special handling.
package distance
