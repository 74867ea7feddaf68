package raster

import "errors"

var (
	// ErrInvalidBorderRadius is returned when a Copy or Mirror border is
	// wider than the core it reflects, or a radius is negative.
	ErrInvalidBorderRadius = errors.New("invalid border radius")

	// ErrAllocationFailure is returned when a buffer cannot be allocated,
	// either because its sample count overflows or exceeds MaxSamples.
	ErrAllocationFailure = errors.New("allocation failure")

	// ErrInsufficientBorder is returned when a window operation needs a
	// wider halo than the bordered buffer carries.
	ErrInsufficientBorder = errors.New("insufficient border for kernel")

	// ErrOddKernelDimensionRequired is returned for kernels whose width or
	// height is even, since they have no unique center.
	ErrOddKernelDimensionRequired = errors.New("kernel dimensions must be odd")

	// ErrEmptyMask is returned by the distance transform when the mask has
	// no background pixel.
	ErrEmptyMask = errors.New("mask has no background pixel")

	// ErrUnsupportedSampleFormat is returned when an operation is given a
	// channel layout it does not handle.
	ErrUnsupportedSampleFormat = errors.New("unsupported sample format")

	// ErrInvalidView is returned for malformed buffer descriptors.
	ErrInvalidView = errors.New("invalid buffer view")
)
