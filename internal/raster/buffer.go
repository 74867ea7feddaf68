package raster

import (
	"fmt"
	"math"
)

// MaxSamples caps the number of samples a single allocation may request.
const MaxSamples = 1 << 30

// Buffer is a row-major 2D store of samples.
//
// A Buffer returned by New owns its Pix slice. A Buffer returned by Wrap or
// Sub is a view: it shares Pix with whatever it was created from.
type Buffer[T Sample] struct {
	// Pix holds the samples. Sample (x, y, c) is at y*Stride + x*Channels + c.
	Pix []T

	// Width and Height are the dimensions in pixels.
	Width  int
	Height int

	// Stride is the distance between the starts of two rows, in samples.
	Stride int

	// Channels is the number of interleaved samples per pixel.
	Channels int
}

// New allocates a zeroed buffer of width×height pixels with the given number
// of channels and a compact stride.
//
// Returns ErrAllocationFailure if the sample count overflows or exceeds
// MaxSamples, and ErrInvalidView for non-positive dimensions.
func New[T Sample](width, height, channels int) (*Buffer[T], error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %dx%d with %d channels", ErrInvalidView, width, height, channels)
	}
	n, ok := sampleCount(width, height, channels)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%dx%d samples", ErrAllocationFailure, width, height, channels)
	}
	return &Buffer[T]{
		Pix:      make([]T, n),
		Width:    width,
		Height:   height,
		Stride:   width * channels,
		Channels: channels,
	}, nil
}

// Wrap describes existing memory as a Buffer without copying it.
func Wrap[T Sample](pix []T, width, height, stride, channels int) (*Buffer[T], error) {
	b := &Buffer[T]{Pix: pix, Width: width, Height: height, Stride: stride, Channels: channels}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func sampleCount(width, height, channels int) (int, bool) {
	if width > MaxSamples || height > MaxSamples || channels > MaxSamples {
		return 0, false
	}
	row := width * channels
	if row/channels != width || row > MaxSamples {
		return 0, false
	}
	if height > 0 && row > math.MaxInt/height {
		return 0, false
	}
	n := row * height
	if n > MaxSamples {
		return 0, false
	}
	return n, true
}

// Validate checks the descriptor invariants: positive dimensions,
// Stride >= Width*Channels and a Pix slice long enough to hold the last row.
func (b *Buffer[T]) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidView)
	}
	if b.Width <= 0 || b.Height <= 0 || b.Channels <= 0 {
		return fmt.Errorf("%w: %dx%d with %d channels", ErrInvalidView, b.Width, b.Height, b.Channels)
	}
	if b.Stride < b.Width*b.Channels {
		return fmt.Errorf("%w: stride %d < width %d * channels %d", ErrInvalidView, b.Stride, b.Width, b.Channels)
	}
	need := (b.Height-1)*b.Stride + b.Width*b.Channels
	if len(b.Pix) < need {
		return fmt.Errorf("%w: have %d samples, need %d", ErrInvalidView, len(b.Pix), need)
	}
	return nil
}

// Offset returns the index in Pix of channel 0 of pixel (x, y).
func (b *Buffer[T]) Offset(x, y int) int {
	return y*b.Stride + x*b.Channels
}

// At returns channel c of pixel (x, y).
func (b *Buffer[T]) At(x, y, c int) T {
	return b.Pix[b.Offset(x, y)+c]
}

// Set stores v into channel c of pixel (x, y).
func (b *Buffer[T]) Set(x, y, c int, v T) {
	b.Pix[b.Offset(x, y)+c] = v
}

// Row returns the Width*Channels samples of row y, excluding stride padding.
func (b *Buffer[T]) Row(y int) []T {
	start := y * b.Stride
	return b.Pix[start : start+b.Width*b.Channels]
}

// Fill sets every sample of every row to v.
func (b *Buffer[T]) Fill(v T) {
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		for i := range row {
			row[i] = v
		}
	}
}

// Clone returns an owning, compactly strided copy of b.
func (b *Buffer[T]) Clone() *Buffer[T] {
	out := &Buffer[T]{
		Pix:      make([]T, b.Width*b.Height*b.Channels),
		Width:    b.Width,
		Height:   b.Height,
		Stride:   b.Width * b.Channels,
		Channels: b.Channels,
	}
	for y := 0; y < b.Height; y++ {
		copy(out.Row(y), b.Row(y))
	}
	return out
}

// Sub returns a view of the w×h rectangle whose top-left pixel is (x, y).
// The view shares Pix with b.
func (b *Buffer[T]) Sub(x, y, w, h int) (*Buffer[T], error) {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > b.Width || y+h > b.Height {
		return nil, fmt.Errorf("%w: sub-rectangle (%d,%d)+%dx%d outside %dx%d",
			ErrInvalidView, x, y, w, h, b.Width, b.Height)
	}
	start := b.Offset(x, y)
	end := (y+h-1)*b.Stride + (x+w)*b.Channels
	return &Buffer[T]{
		Pix:      b.Pix[start:end],
		Width:    w,
		Height:   h,
		Stride:   b.Stride,
		Channels: b.Channels,
	}, nil
}

// SameShape reports whether two buffers have equal width, height and
// channel count. Strides may differ.
func SameShape[T, U Sample](a *Buffer[T], b *Buffer[U]) bool {
	return a.Width == b.Width && a.Height == b.Height && a.Channels == b.Channels
}

// Convert copies src into a newly allocated buffer of sample type U,
// converting each sample with FromFloat.
func Convert[U, T Sample](src *Buffer[T]) (*Buffer[U], error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	dst, err := New[U](src.Width, src.Height, src.Channels)
	if err != nil {
		return nil, err
	}
	for y := 0; y < src.Height; y++ {
		in, out := src.Row(y), dst.Row(y)
		for i, v := range in {
			out[i] = FromFloat[U](float64(v))
		}
	}
	return dst, nil
}

// MinMax returns the smallest and largest sample over all channels.
func (b *Buffer[T]) MinMax() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for y := 0; y < b.Height; y++ {
		for _, v := range b.Row(y) {
			f := float64(v)
			if f < lo {
				lo = f
			}
			if f > hi {
				hi = f
			}
		}
	}
	return lo, hi
}
