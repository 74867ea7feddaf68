// Package convolve correlates a kernel against the core of a bordered buffer.
//
// Apply reads every window straight out of the padded store, so the inner
// loop has no edge handling at all: the halo supplies the samples beyond the
// image. Each kernel row is accumulated in blocks of ChunkSize taps with a
// scalar tail for the remainder. The center tap is taken out of the blocked
// sum and added as its own term, which lets WithCenterWeight override it
// (an "exclude self" box filter is WithCenterWeight(0)) without touching the
// caller's kernel. Division by the divider happens after accumulation, in a
// separate pass over the output.
//
// Arithmetic is float64 for every sample type, and results are returned as
// float64 buffers; convert back with raster.Convert.
package convolve
