package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/convolve"
	"github.com/ironsheep/image-filter-mcp/internal/distance"
	"github.com/ironsheep/image-filter-mcp/internal/median"
	"github.com/ironsheep/image-filter-mcp/internal/morphology"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
	"github.com/ironsheep/image-filter-mcp/internal/report"
)

// FilterOptions holds the settings shared by every image-level filter.
type FilterOptions struct {
	// Policy fills the halo around the image. The zero value is Constant(0).
	Policy border.Policy

	// Gray converts color images to one channel before filtering.
	Gray bool

	// Workers is passed to the convolution engine (0 uses GOMAXPROCS).
	Workers int

	// Sink receives advisory messages. May be nil.
	Sink report.Sink
}

func (o FilterOptions) convolveOptions() []convolve.Option {
	return []convolve.Option{convolve.WithWorkers(o.Workers), convolve.WithReporter(o.Sink)}
}

// Bordered converts img to samples and pads it with the configured policy.
func (o FilterOptions) Bordered(img image.Image, xRadius, yRadius int) (*border.Buffer[uint8], error) {
	spec := border.Spec{XRadius: xRadius, YRadius: yRadius, Policy: o.Policy}
	return border.New(ToSamples(img, o.Gray), spec, border.WithReporter(o.Sink))
}

// BorderPreview returns the whole padded buffer, halo included, so the
// effect of a border policy can be inspected directly.
func BorderPreview(img image.Image, xRadius, yRadius int, o FilterOptions) (*raster.Buffer[uint8], error) {
	b, err := o.Bordered(img, xRadius, yRadius)
	if err != nil {
		return nil, err
	}
	return b.Full().Clone(), nil
}

// ConvolveImage pads img just enough for k and applies it. extra options
// (divider, center weight) are appended after the workers and reporter.
func ConvolveImage(img image.Image, k *convolve.Kernel, o FilterOptions, extra ...convolve.Option) (*raster.Buffer[float64], error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	in, err := o.Bordered(img, k.CenterX(), k.CenterY())
	if err != nil {
		return nil, err
	}
	return convolve.Apply(in, k, append(o.convolveOptions(), extra...)...)
}

// Blur methods accepted by BlurImage.
const (
	BlurBox        = "box"
	BlurGaussian   = "gaussian"
	BlurGaussian2D = "gaussian2d"
)

// BlurImage smooths img.
//
// For "box" the window is (2*radius+1) square, optionally leaving the
// center pixel out. For "gaussian" the kernel has standard deviation sigma
// (radius/2 when sigma is 0) and is applied as two 1D passes; "gaussian2d"
// applies the same kernel as one square pass.
func BlurImage(img image.Image, method string, radius int, sigma float64, excludeSelf bool, o FilterOptions) (*raster.Buffer[float64], error) {
	switch method {
	case "", BlurBox:
		if radius < 1 {
			return nil, fmt.Errorf("box blur radius must be at least 1, got %d", radius)
		}
		in, err := o.Bordered(img, radius, radius)
		if err != nil {
			return nil, err
		}
		return convolve.BoxBlur(in, radius, radius, excludeSelf, o.convolveOptions()...)
	case BlurGaussian, BlurGaussian2D:
		if sigma <= 0 {
			sigma = math.Max(float64(radius)/2, 0.5)
		}
		r := convolve.Gaussian(sigma).CenterX()
		in, err := o.Bordered(img, r, r)
		if err != nil {
			return nil, err
		}
		if method == BlurGaussian2D {
			return convolve.Apply(in, convolve.Gaussian2D(sigma), o.convolveOptions()...)
		}
		return convolve.GaussianBlur(in, sigma, o.convolveOptions()...)
	}
	return nil, fmt.Errorf("unknown blur method %q (want box, gaussian or gaussian2d)", method)
}

// SobelImage returns the Sobel gradient magnitude of img.
func SobelImage(img image.Image, o FilterOptions) (*raster.Buffer[float64], error) {
	in, err := o.Bordered(img, 1, 1)
	if err != nil {
		return nil, err
	}
	return convolve.Sobel(in, o.convolveOptions()...)
}

// MedianImage applies a (2*radius+1) square median filter.
func MedianImage(img image.Image, radius int, o FilterOptions) (*raster.Buffer[uint8], error) {
	in, err := o.Bordered(img, radius, radius)
	if err != nil {
		return nil, err
	}
	return median.Apply(in, radius, radius)
}

// DistanceImage thresholds img into a mask (gray level <= threshold is
// background) and returns its distance transform.
func DistanceImage(img image.Image, threshold uint8, opts distance.Options) (*raster.Buffer[float64], error) {
	mask := MaskFromImage(img, threshold)
	opts.Background = 0
	return distance.Transform(mask, opts)
}

// MorphologyImage thresholds img into a mask (gray level above threshold is
// foreground) and applies op with the structuring element se. The image edge
// is neutral for every op, so o.Policy is not used.
func MorphologyImage(img image.Image, op morphology.Op, se *convolve.Kernel, threshold uint8, o FilterOptions) (*raster.Buffer[uint8], error) {
	mask := MaskFromImage(img, threshold)
	return morphology.Apply(mask, op, se, morphology.WithWorkers(o.Workers), morphology.WithReporter(o.Sink))
}

// MaximaImage marks the local maxima of img's gray levels above threshold.
// o.Policy decides whether edge pixels can be maxima: Copy lets them,
// Constant(255) never does.
func MaximaImage(img image.Image, threshold uint8, o FilterOptions) (*raster.Buffer[uint8], error) {
	in, err := border.New(ToGray(img), border.Spec{XRadius: 1, YRadius: 1, Policy: o.Policy}, border.WithReporter(o.Sink))
	if err != nil {
		return nil, err
	}
	return morphology.LocalMaxima(in, float64(threshold))
}
