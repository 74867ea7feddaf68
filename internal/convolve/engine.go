package convolve

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
	"github.com/ironsheep/image-filter-mcp/internal/report"
)

// ChunkSize is the number of taps accumulated per unrolled block of a
// kernel row. The remaining Width%ChunkSize taps go through a scalar tail.
const ChunkSize = 8

// Option configures Apply and Separable.
type Option func(*options)

type options struct {
	divider      float64
	normalize    bool
	centerWeight float64
	hasCenter    bool
	workers      int
	sink         report.Sink
}

func defaultOptions() options {
	return options{divider: 1, workers: 1}
}

// WithDivider divides every output sample by d in a final pass.
// A zero, infinite or NaN divider is replaced by 1 and reported.
func WithDivider(d float64) Option {
	return func(o *options) {
		o.divider = d
		o.normalize = false
	}
}

// WithNormalize divides every output sample by the sum of the effective
// kernel weights, center override included. A zero sum falls back to 1.
func WithNormalize() Option {
	return func(o *options) { o.normalize = true }
}

// WithCenterWeight replaces the coefficient of the center tap for this call
// only. The caller's kernel is never modified.
func WithCenterWeight(w float64) Option {
	return func(o *options) {
		o.centerWeight = w
		o.hasCenter = true
	}
}

// WithWorkers splits the output rows across n goroutines. n <= 0 uses
// GOMAXPROCS. Results are identical for every n.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithReporter sets the sink for advisory messages.
func WithReporter(s report.Sink) Option {
	return func(o *options) { o.sink = s }
}

// plan is the immutable per-call form of a kernel: body holds the
// coefficients with the center tap zeroed, center holds the tap separately.
type plan struct {
	body   []float64
	center float64
	width  int
	height int
}

func newPlan(k *Kernel, o options) plan {
	body := make([]float64, len(k.Values))
	copy(body, k.Values)
	ci := k.CenterY()*k.Width + k.CenterX()
	center := body[ci]
	if o.hasCenter {
		center = o.centerWeight
	}
	body[ci] = 0
	return plan{body: body, center: center, width: k.Width, height: k.Height}
}

func (p plan) sum() float64 {
	s := p.center
	for _, v := range p.body {
		s += v
	}
	return s
}

// Apply convolves the core of in with k and returns a float64 buffer the
// size of the core. Output (x, y) is the weighted sum of the window centered
// on core pixel (x, y), each channel independently, followed by the divider.
//
// The halo of in must be at least as thick as the kernel radius on each
// axis, and must be up to date (see border.Buffer.Resync). Apply only reads
// from in.
func Apply[T raster.Sample](in *border.Buffer[T], k *Kernel, opts ...Option) (*raster.Buffer[float64], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return apply(in, k, o)
}

func apply[T raster.Sample](in *border.Buffer[T], k *Kernel, o options) (*raster.Buffer[float64], error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, fmt.Errorf("%w: nil bordered buffer", raster.ErrInvalidView)
	}
	if in.XRadius() < k.CenterX() || in.YRadius() < k.CenterY() {
		return nil, fmt.Errorf("%w: border %dx%d, kernel %dx%d needs %dx%d",
			raster.ErrInsufficientBorder, in.XRadius(), in.YRadius(),
			k.Width, k.Height, k.CenterX(), k.CenterY())
	}
	core := in.Core()
	out, err := raster.New[float64](core.Width, core.Height, core.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate convolution output: %w", err)
	}

	p := newPlan(k, o)
	divider := o.divider
	if o.normalize {
		divider = p.sum()
	}
	if divider == 0 || math.IsNaN(divider) || math.IsInf(divider, 0) {
		report.Reportf(o.sink, "convolution divider %g is unusable, using 1", divider)
		divider = 1
	}

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
			convolveRows(in, p, out, start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if divider != 1 {
		scale(out, divider)
	}
	return out, nil
}

// convolveRows computes output rows [y0, y1).
func convolveRows[T raster.Sample](in *border.Buffer[T], p plan, out *raster.Buffer[float64], y0, y1 int) {
	full := in.Full()
	ch := full.Channels
	xr, yr := in.XRadius(), in.YRadius()
	cx, cy := p.width/2, p.height/2
	w := out.Width

	for y := y0; y < y1; y++ {
		dst := out.Row(y)
		for x := 0; x < w; x++ {
			for c := 0; c < ch; c++ {
				base := (y+yr-cy)*full.Stride + (x+xr-cx)*ch + c
				var sum float64
				for ky := 0; ky < p.height; ky++ {
					sum += rowDot(full.Pix[base+ky*full.Stride:], ch, p.body[ky*p.width:(ky+1)*p.width])
				}
				sum += p.center * float64(full.Pix[(y+yr)*full.Stride+(x+xr)*ch+c])
				dst[x*ch+c] = sum
			}
		}
	}
}

// rowDot returns sum(k[i] * src[i*step]). Full blocks of ChunkSize taps are
// accumulated into independent partial sums; the remainder is added one tap
// at a time.
func rowDot[T raster.Sample](src []T, step int, k []float64) float64 {
	n := len(k)
	blocks := n - n%ChunkSize
	var s0, s1, s2, s3, s4, s5, s6, s7 float64
	i := 0
	for ; i < blocks; i += ChunkSize {
		j := i * step
		s0 += k[i] * float64(src[j])
		s1 += k[i+1] * float64(src[j+step])
		s2 += k[i+2] * float64(src[j+2*step])
		s3 += k[i+3] * float64(src[j+3*step])
		s4 += k[i+4] * float64(src[j+4*step])
		s5 += k[i+5] * float64(src[j+5*step])
		s6 += k[i+6] * float64(src[j+6*step])
		s7 += k[i+7] * float64(src[j+7*step])
	}
	sum := (s0 + s1) + (s2 + s3) + (s4 + s5) + (s6 + s7)
	for ; i < n; i++ {
		sum += k[i] * float64(src[i*step])
	}
	return sum
}

func scale(b *raster.Buffer[float64], divider float64) {
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		for i := range row {
			row[i] /= divider
		}
	}
}
