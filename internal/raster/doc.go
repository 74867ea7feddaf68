// Package raster defines the flat sample buffer every filter in this module
// operates on.
//
// A Buffer is a row-major store of samples described by width, height, stride
// and channel count. The same type is used both for buffers this module
// allocates itself (see New) and for non-owning views over memory that belongs
// to someone else (see Wrap and Buffer.Sub). Views never copy; mutating a
// view mutates the underlying store.
//
// # Layout
//
// Sample (x, y, c) lives at Pix[y*Stride + x*Channels + c]. Stride is counted
// in samples, not bytes, and must be at least Width*Channels. Rows may carry
// trailing padding, which is never read by the filters.
//
// # Sample Types
//
// Buffers are generic over Sample: 8- and 16-bit unsigned integers and 32-
// and 64-bit floats. Filters accumulate in float64 regardless of T and use
// FromFloat to store results back into integer buffers with rounding and
// clamping.
//
// # Errors
//
// The error taxonomy shared by the border, convolve, distance and median
// packages lives here so callers can test any operation's failure with
// errors.Is against a single set of sentinels.
package raster
