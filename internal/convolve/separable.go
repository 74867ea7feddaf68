package convolve

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

// Separable applies kx and then ky. The intermediate result is re-bordered
// with the policy of in, sized for ky. A Constant(v) halo becomes
// Constant(v*kx.Sum()) there, which is what kx makes of a row of v, so the
// result matches the 2D outer product of kx and ky under every policy.
// Divider and center options apply to the second pass only.
func Separable[T raster.Sample](in *border.Buffer[T], kx, ky *Kernel, opts ...Option) (*raster.Buffer[float64], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := ky.Validate(); err != nil {
		return nil, err
	}

	first := options{divider: 1, workers: o.workers, sink: o.sink}
	mid, err := apply(in, kx, first)
	if err != nil {
		return nil, err
	}

	policy := in.Spec().Policy
	if policy.Kind == border.KindConstant {
		policy.Value = float64(raster.FromFloat[T](policy.Value)) * kx.Sum()
	}
	spec := border.Spec{XRadius: ky.CenterX(), YRadius: ky.CenterY(), Policy: policy}
	padded, err := border.New(mid, spec, border.WithReporter(o.sink))
	if err != nil {
		return nil, fmt.Errorf("failed to border intermediate result: %w", err)
	}
	return apply(padded, ky, o)
}

// GaussianBlur blurs with a separable Gaussian of standard deviation sigma.
// The border of in must be at least ceil(3*sigma) on both axes.
func GaussianBlur[T raster.Sample](in *border.Buffer[T], sigma float64, opts ...Option) (*raster.Buffer[float64], error) {
	g := Gaussian(sigma)
	return Separable(in, g, g.Transposed(), opts...)
}

// BoxBlur averages each (2*xRadius+1)×(2*yRadius+1) window. When
// excludeSelf is set the center pixel is left out and the remaining taps
// are renormalized.
func BoxBlur[T raster.Sample](in *border.Buffer[T], xRadius, yRadius int, excludeSelf bool, opts ...Option) (*raster.Buffer[float64], error) {
	if xRadius < 0 || yRadius < 0 {
		return nil, fmt.Errorf("%w: box radius %dx%d", raster.ErrInvalidBorderRadius, xRadius, yRadius)
	}
	w, h := 2*xRadius+1, 2*yRadius+1
	ones := make([]float64, w*h)
	for i := range ones {
		ones[i] = 1
	}
	k := &Kernel{Width: w, Height: h, Values: ones}
	if excludeSelf {
		opts = append(opts, WithCenterWeight(0))
	}
	return Apply(in, k, append(opts, WithNormalize())...)
}

// Sobel returns the gradient magnitude sqrt(gx² + gy²) of every channel,
// using the 3×3 Sobel pair. The border of in must be at least 1.
func Sobel[T raster.Sample](in *border.Buffer[T], opts ...Option) (*raster.Buffer[float64], error) {
	gx, err := Apply(in, SobelX(), opts...)
	if err != nil {
		return nil, err
	}
	gy, err := Apply(in, SobelY(), opts...)
	if err != nil {
		return nil, err
	}
	for i, v := range gx.Pix {
		gx.Pix[i] = math.Hypot(v, gy.Pix[i])
	}
	return gx, nil
}
