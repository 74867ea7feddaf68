package border

import (
	"fmt"

	"github.com/ironsheep/image-filter-mcp/internal/raster"
	"github.com/ironsheep/image-filter-mcp/internal/report"
)

// Option configures New.
type Option func(*options)

type options struct {
	sink report.Sink
}

// WithReporter sets the sink that receives advisory messages, such as a
// constant border value being clamped to the sample range.
func WithReporter(s report.Sink) Option {
	return func(o *options) { o.sink = s }
}

// Buffer is a copy of a core image surrounded by a synthesized halo.
//
// The halo reflects the policy applied to the core as it was when the halo
// was last synthesized. Writes through Core() are not tracked: after mutating
// the core in place the caller must call Resync before relying on the halo
// again. Reading a stale halo is a caller error, not something Buffer detects.
//
// A Buffer is owned by whoever created it and must not be mutated
// concurrently. Filters only read from it.
type Buffer[T raster.Sample] struct {
	full *raster.Buffer[T]
	core *raster.Buffer[T]
	spec Spec
	fill T
}

// New allocates a bordered copy of core. The core samples are copied into
// the centre of a (Width+2*XRadius)×(Height+2*YRadius) store and the halo is
// filled according to spec.Policy.
//
// On error no Buffer is returned.
func New[T raster.Sample](core *raster.Buffer[T], spec Spec, opts ...Option) (*Buffer[T], error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if err := core.Validate(); err != nil {
		return nil, err
	}
	if err := spec.Validate(core.Width, core.Height); err != nil {
		return nil, err
	}

	full, err := raster.New[T](core.Width+2*spec.XRadius, core.Height+2*spec.YRadius, core.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate bordered buffer: %w", err)
	}
	inner, err := full.Sub(spec.XRadius, spec.YRadius, core.Width, core.Height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < core.Height; y++ {
		copy(inner.Row(y), core.Row(y))
	}

	fill, clamped := raster.FromFloatClamped[T](spec.Policy.Value)
	if clamped && spec.Policy.Kind == KindConstant {
		report.Reportf(o.sink, "border constant %g clamped to %g for this sample type",
			spec.Policy.Value, float64(fill))
	}

	b := &Buffer[T]{full: full, core: inner, spec: spec, fill: fill}
	b.synthesize()
	return b, nil
}

// Zero is New with a constant-zero border of the given radii.
func Zero[T raster.Sample](core *raster.Buffer[T], xRadius, yRadius int) (*Buffer[T], error) {
	return New(core, Spec{XRadius: xRadius, YRadius: yRadius, Policy: Constant(0)})
}

// Resync re-derives the halo from the current core contents.
func (b *Buffer[T]) Resync() {
	b.synthesize()
}

// Core returns a view of the interior rectangle. It shares storage with the
// bordered buffer.
func (b *Buffer[T]) Core() *raster.Buffer[T] { return b.core }

// Full returns a view of the whole padded store, halo included.
func (b *Buffer[T]) Full() *raster.Buffer[T] { return b.full }

// Spec returns the border specification the buffer was built with.
func (b *Buffer[T]) Spec() Spec { return b.spec }

// XRadius is the halo thickness on the left and right.
func (b *Buffer[T]) XRadius() int { return b.spec.XRadius }

// YRadius is the halo thickness on the top and bottom.
func (b *Buffer[T]) YRadius() int { return b.spec.YRadius }

// At reads channel c of the pixel at core coordinates (x, y). Coordinates
// may reach into the halo: -XRadius <= x < Width+XRadius.
func (b *Buffer[T]) At(x, y, c int) T {
	return b.full.At(x+b.spec.XRadius, y+b.spec.YRadius, c)
}

func (b *Buffer[T]) synthesize() {
	SynthesizeHalo(b.full, b.spec, b.fill)
}

// SynthesizeHalo fills the halo ring of full, which must already hold the
// core in its centre, according to spec. fill is the constant used by
// KindConstant, already converted to T.
//
// Columns of the core rows are filled first; halo rows are then copied whole
// from their source rows, so corners come out reflected (or replicated) in
// both axes.
func SynthesizeHalo[T raster.Sample](full *raster.Buffer[T], spec Spec, fill T) {
	xr, yr := spec.XRadius, spec.YRadius
	w := full.Width - 2*xr
	h := full.Height - 2*yr
	ch := full.Channels

	if spec.Policy.Kind == KindConstant {
		for y := 0; y < full.Height; y++ {
			row := full.Row(y)
			if y < yr || y >= yr+h {
				for i := range row {
					row[i] = fill
				}
				continue
			}
			for i := 0; i < xr*ch; i++ {
				row[i] = fill
				row[len(row)-1-i] = fill
			}
		}
		return
	}

	kind := spec.Policy.Kind
	for y := yr; y < yr+h; y++ {
		row := full.Row(y)
		for k := 1; k <= xr; k++ {
			src, _ := SourceIndex(-k, w, kind)
			copy(row[(xr-k)*ch:(xr-k+1)*ch], row[(xr+src)*ch:(xr+src+1)*ch])

			src, _ = SourceIndex(w-1+k, w, kind)
			dst := xr + w - 1 + k
			copy(row[dst*ch:(dst+1)*ch], row[(xr+src)*ch:(xr+src+1)*ch])
		}
	}
	for k := 1; k <= yr; k++ {
		src, _ := SourceIndex(-k, h, kind)
		copy(full.Row(yr-k), full.Row(yr+src))

		src, _ = SourceIndex(h-1+k, h, kind)
		copy(full.Row(yr+h-1+k), full.Row(yr+src))
	}
}
