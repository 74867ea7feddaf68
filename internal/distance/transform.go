package distance

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
	"github.com/ironsheep/image-filter-mcp/internal/report"
)

// Far is the distance assigned to foreground pixels before propagation. It
// is large enough that adding any realistic path length leaves it ordered
// above every real distance.
const Far = 1e20

// Edge decides what lies beyond the image.
type Edge int

const (
	// EdgeBackground treats the outside as background, so a foreground
	// pixel on the image edge is at distance one orthogonal step.
	EdgeBackground Edge = iota
	// EdgeOpen treats the outside as unreachable; only background pixels
	// inside the image count.
	EdgeOpen
)

// Options configures Transform. The zero value measures Chamfer distance
// from pixels equal to 0, with background beyond the edges.
type Options struct {
	// Background is the mask value that marks background pixels.
	Background float64
	// Complement swaps the roles: pixels equal to Background are the
	// foreground and everything else is background.
	Complement bool
	// Metric defaults to Chamfer.
	Metric Metric
	Edge   Edge
	// Reporter receives advisory messages. May be nil.
	Reporter report.Sink
}

// Transform computes, for every pixel of a single-channel mask, the
// distance to the nearest background pixel. Background pixels get 0.
//
// The mask is copied into a bordered float buffer with a one-pixel
// Constant halo (0 for EdgeBackground, Far for EdgeOpen), so the passes read
// neighbors without any bounds checks.
func Transform[T raster.Sample](mask *raster.Buffer[T], opts Options) (*raster.Buffer[float64], error) {
	if err := mask.Validate(); err != nil {
		return nil, err
	}
	if mask.Channels != 1 {
		return nil, fmt.Errorf("%w: mask has %d channels, want 1", raster.ErrUnsupportedSampleFormat, mask.Channels)
	}
	metric := opts.Metric
	if metric.isZero() {
		metric = Chamfer
	}
	if !metric.exact {
		if !(metric.Orthogonal > 0) || !(metric.Diagonal > 0) {
			return nil, fmt.Errorf("invalid metric %s", metric)
		}
		if metric.Diagonal < metric.Orthogonal || metric.Diagonal > 2*metric.Orthogonal {
			report.Reportf(opts.Reporter, "metric %s: diagonal weight outside [orthogonal, 2*orthogonal] breaks the triangle inequality", metric)
		}
	}

	seed, err := raster.New[float64](mask.Width, mask.Height, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate distance seed: %w", err)
	}
	backgrounds := 0
	for y := 0; y < mask.Height; y++ {
		src, dst := mask.Row(y), seed.Row(y)
		for x, v := range src {
			if (float64(v) == opts.Background) != opts.Complement {
				backgrounds++
				continue
			}
			dst[x] = Far
		}
	}
	if backgrounds == 0 {
		return nil, fmt.Errorf("%w: no pixel equals background value %g", raster.ErrEmptyMask, opts.Background)
	}

	outside := 0.0
	if opts.Edge == EdgeOpen {
		outside = Far
	}
	field, err := border.New(seed, border.Spec{XRadius: 1, YRadius: 1, Policy: border.Constant(outside)},
		border.WithReporter(opts.Reporter))
	if err != nil {
		return nil, fmt.Errorf("failed to border distance field: %w", err)
	}

	if metric.exact {
		euclidean(field)
	} else {
		forward(field, metric)
		backward(field, metric)
	}
	return field.Core().Clone(), nil
}

// forward scans top-left to bottom-right, relaxing each pixel against its
// upper-left, upper, upper-right and left neighbors.
func forward(b *border.Buffer[float64], m Metric) {
	full := b.Full()
	s := full.Stride
	core := b.Core()
	orth, diag := m.Orthogonal, m.Diagonal

	for y := 0; y < core.Height; y++ {
		i := full.Offset(1, y+1)
		for x := 0; x < core.Width; x, i = x+1, i+1 {
			d := full.Pix[i]
			if d == 0 {
				continue
			}
			d = math.Min(d, full.Pix[i-s-1]+diag)
			d = math.Min(d, full.Pix[i-s]+orth)
			d = math.Min(d, full.Pix[i-s+1]+diag)
			d = math.Min(d, full.Pix[i-1]+orth)
			full.Pix[i] = d
		}
	}
}

// backward scans bottom-right to top-left against the mirrored neighbor set.
func backward(b *border.Buffer[float64], m Metric) {
	full := b.Full()
	s := full.Stride
	core := b.Core()
	orth, diag := m.Orthogonal, m.Diagonal

	for y := core.Height - 1; y >= 0; y-- {
		i := full.Offset(core.Width, y+1)
		for x := core.Width - 1; x >= 0; x, i = x-1, i-1 {
			d := full.Pix[i]
			if d == 0 {
				continue
			}
			d = math.Min(d, full.Pix[i+1]+orth)
			d = math.Min(d, full.Pix[i+s-1]+diag)
			d = math.Min(d, full.Pix[i+s]+orth)
			d = math.Min(d, full.Pix[i+s+1]+diag)
			full.Pix[i] = d
		}
	}
}
