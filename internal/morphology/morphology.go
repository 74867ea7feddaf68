package morphology

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/convolve"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
	"github.com/ironsheep/image-filter-mcp/internal/report"
)

// Op names a binary morphological operation.
type Op int

const (
	OpDilate Op = iota
	OpErode
	OpOpen
	OpClose
)

func (op Op) String() string {
	switch op {
	case OpDilate:
		return "dilate"
	case OpErode:
		return "erode"
	case OpOpen:
		return "open"
	case OpClose:
		return "close"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// ParseOp accepts dilate, erode, open or close in any case.
func ParseOp(s string) (Op, error) {
	for _, op := range []Op{OpDilate, OpErode, OpOpen, OpClose} {
		if strings.EqualFold(s, op.String()) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown morphology operation %q (want dilate, erode, open or close)", s)
}

// Background is the halo policy under which the image edge never grows a
// dilation.
func Background() border.Policy { return border.Constant(0) }

// Foreground is the halo policy under which the image edge never eats into
// an erosion.
func Foreground() border.Policy { return border.Constant(255) }

// Option configures the operations in this package.
type Option func(*options)

type options struct {
	workers int
	sink    report.Sink
}

// WithWorkers splits the output rows across n goroutines. n <= 0 uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithReporter sets the sink for advisory messages.
func WithReporter(s report.Sink) Option {
	return func(o *options) { o.sink = s }
}

func newOptions(opts []Option) options {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Dilate sets every pixel whose element window, placed on it, covers at
// least one foreground pixel of in.
func Dilate(in *border.Buffer[uint8], se *convolve.Kernel, opts ...Option) (*raster.Buffer[uint8], error) {
	return sweep(in, se, newOptions(opts), true)
}

// Erode keeps a foreground pixel only when every pixel under its element
// window is foreground.
func Erode(in *border.Buffer[uint8], se *convolve.Kernel, opts ...Option) (*raster.Buffer[uint8], error) {
	return sweep(in, se, newOptions(opts), false)
}

// Open erodes in and dilates the result, removing foreground specks smaller
// than the element.
func Open(in *border.Buffer[uint8], se *convolve.Kernel, opts ...Option) (*raster.Buffer[uint8], error) {
	o := newOptions(opts)
	mid, err := sweep(in, se, o, false)
	if err != nil {
		return nil, err
	}
	b, err := reborder(mid, se, Background(), o)
	if err != nil {
		return nil, err
	}
	return sweep(b, se, o, true)
}

// Close dilates in and erodes the result, filling background holes smaller
// than the element.
func Close(in *border.Buffer[uint8], se *convolve.Kernel, opts ...Option) (*raster.Buffer[uint8], error) {
	o := newOptions(opts)
	mid, err := sweep(in, se, o, true)
	if err != nil {
		return nil, err
	}
	b, err := reborder(mid, se, Foreground(), o)
	if err != nil {
		return nil, err
	}
	return sweep(b, se, o, false)
}

// Apply borders mask with the neutral halo of op's first pass and runs op.
func Apply(mask *raster.Buffer[uint8], op Op, se *convolve.Kernel, opts ...Option) (*raster.Buffer[uint8], error) {
	if err := se.Validate(); err != nil {
		return nil, err
	}
	policy := Background()
	if op == OpErode || op == OpOpen {
		policy = Foreground()
	}
	in, err := reborder(mask, se, policy, newOptions(opts))
	if err != nil {
		return nil, err
	}
	switch op {
	case OpDilate:
		return Dilate(in, se, opts...)
	case OpErode:
		return Erode(in, se, opts...)
	case OpOpen:
		return Open(in, se, opts...)
	case OpClose:
		return Close(in, se, opts...)
	}
	return nil, fmt.Errorf("unknown morphology operation %s", op)
}

func reborder(core *raster.Buffer[uint8], se *convolve.Kernel, p border.Policy, o options) (*border.Buffer[uint8], error) {
	spec := border.Spec{XRadius: se.CenterX(), YRadius: se.CenterY(), Policy: p}
	b, err := border.New(core, spec, border.WithReporter(o.sink))
	if err != nil {
		return nil, fmt.Errorf("failed to border mask: %w", err)
	}
	return b, nil
}

// offsets lists the element taps other than the center as sample offsets
// into a store with the given stride.
func offsets(se *convolve.Kernel, stride int) []int {
	cx, cy := se.CenterX(), se.CenterY()
	var offs []int
	for ky := 0; ky < se.Height; ky++ {
		for kx := 0; kx < se.Width; kx++ {
			if (kx == cx && ky == cy) || se.At(kx, ky) == 0 {
				continue
			}
			offs = append(offs, (ky-cy)*stride+(kx-cx))
		}
	}
	return offs
}

func sweep(in *border.Buffer[uint8], se *convolve.Kernel, o options, dilate bool) (*raster.Buffer[uint8], error) {
	if err := se.Validate(); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, fmt.Errorf("%w: nil bordered buffer", raster.ErrInvalidView)
	}
	if in.Core().Channels != 1 {
		return nil, fmt.Errorf("%w: mask has %d channels, want 1", raster.ErrUnsupportedSampleFormat, in.Core().Channels)
	}
	if in.XRadius() < se.CenterX() || in.YRadius() < se.CenterY() {
		return nil, fmt.Errorf("%w: border %dx%d, element %dx%d needs %dx%d",
			raster.ErrInsufficientBorder, in.XRadius(), in.YRadius(),
			se.Width, se.Height, se.CenterX(), se.CenterY())
	}

	core := in.Core()
	out, err := raster.New[uint8](core.Width, core.Height, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate morphology output: %w", err)
	}
	full := in.Full()
	offs := offsets(se, full.Stride)

	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > core.Height {
		report.Reportf(o.sink, "reducing %d workers to %d rows", workers, core.Height)
		workers = core.Height
	}

	var g errgroup.Group
	per := (core.Height + workers - 1) / workers
	for start := 0; start < core.Height; start += per {
		start := start
		end := min(start+per, core.Height)
		g.Go(func() error {
			for y := start; y < end; y++ {
				dst := out.Row(y)
				i := full.Offset(in.XRadius(), y+in.YRadius())
				for x := range dst {
					if hit(full.Pix, i+x, offs, dilate) {
						dst[x] = 255
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// hit reports whether the pixel at index i is foreground after one pass.
// Dilation only scans the element around background pixels and erosion
// only around foreground ones; the first match decides.
func hit(pix []uint8, i int, offs []int, dilate bool) bool {
	if dilate {
		if pix[i] != 0 {
			return true
		}
		for _, d := range offs {
			if pix[i+d] != 0 {
				return true
			}
		}
		return false
	}
	if pix[i] == 0 {
		return false
	}
	for _, d := range offs {
		if pix[i+d] == 0 {
			return false
		}
	}
	return true
}
