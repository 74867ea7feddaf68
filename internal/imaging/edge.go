package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/convolve"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

// cannyBlur is the 5x5 integer Gaussian (sigma ≈ 1.4) applied before the
// gradients. Its coefficients sum to 273, which is passed as the divider.
var cannyBlur = []float64{
	1, 4, 7, 4, 1,
	4, 16, 26, 16, 4,
	7, 26, 41, 26, 7,
	4, 16, 26, 16, 4,
	1, 4, 7, 4, 1,
}

// EdgeDetect performs Canny-style edge detection on an image.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - thresholdLow: Gradient magnitude (0-255 scale) below which pixels are
//     discarded. Typical value: 50.
//   - thresholdHigh: Gradient magnitude above which pixels are always kept.
//     Typical value: 150.
//   - opts: Passed to every convolution (workers, reporter).
//
// Returns a single-channel buffer with 255 on edges and 0 elsewhere.
//
// # Algorithm
//
//  1. Grayscale conversion (ToGray).
//  2. 5x5 Gaussian blur on a Copy-bordered buffer.
//  3. Sobel gradients on a Copy-bordered copy of the blurred image.
//  4. Non-maximum suppression along the gradient direction, reading
//     neighbors from a zero-bordered magnitude buffer.
//  5. Hysteresis: pixels between the thresholds survive only next to a
//     pixel above thresholdHigh.
//
// Magnitudes are normalized by the largest possible Sobel response (4*255)
// before comparison, so thresholds behave the same for any image.
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int, opts ...convolve.Option) (*raster.Buffer[uint8], error) {
	if thresholdLow < 0 || thresholdHigh < thresholdLow {
		return nil, fmt.Errorf("invalid thresholds: need 0 <= low (%d) <= high (%d)", thresholdLow, thresholdHigh)
	}
	gray := ToGray(img)

	blurIn, err := border.New(gray, border.Spec{XRadius: 2, YRadius: 2, Policy: border.Copy()})
	if err != nil {
		return nil, err
	}
	k, _ := convolve.NewKernel(5, 5, cannyBlur)
	blurred, err := convolve.Apply(blurIn, k, append(opts, convolve.WithDivider(273))...)
	if err != nil {
		return nil, fmt.Errorf("blur failed: %w", err)
	}

	gradIn, err := border.New(blurred, border.Spec{XRadius: 1, YRadius: 1, Policy: border.Copy()})
	if err != nil {
		return nil, err
	}
	gx, err := convolve.Apply(gradIn, convolve.SobelX(), opts...)
	if err != nil {
		return nil, fmt.Errorf("gradient failed: %w", err)
	}
	gy, err := convolve.Apply(gradIn, convolve.SobelY(), opts...)
	if err != nil {
		return nil, fmt.Errorf("gradient failed: %w", err)
	}

	mag, err := raster.New[float64](gray.Width, gray.Height, 1)
	if err != nil {
		return nil, err
	}
	for i := range mag.Pix {
		mag.Pix[i] = math.Hypot(gx.Pix[i], gy.Pix[i]) / 4
	}
	magB, err := border.Zero(mag, 1, 1)
	if err != nil {
		return nil, err
	}

	suppressed, err := raster.New[float64](gray.Width, gray.Height, 1)
	if err != nil {
		return nil, err
	}
	for y := 0; y < gray.Height; y++ {
		for x := 0; x < gray.Width; x++ {
			m := magB.At(x, y, 0)
			dx, dy := neighborStep(math.Atan2(gy.At(x, y, 0), gx.At(x, y, 0)))
			if m >= magB.At(x+dx, y+dy, 0) && m >= magB.At(x-dx, y-dy, 0) {
				suppressed.Set(x, y, 0, m)
			}
		}
	}

	strong, err := border.Zero(suppressed, 1, 1)
	if err != nil {
		return nil, err
	}
	low, high := float64(thresholdLow), float64(thresholdHigh)
	out, err := raster.New[uint8](gray.Width, gray.Height, 1)
	if err != nil {
		return nil, err
	}
	for y := 0; y < gray.Height; y++ {
		for x := 0; x < gray.Width; x++ {
			v := strong.At(x, y, 0)
			switch {
			case v >= high:
				out.Set(x, y, 0, 255)
			case v >= low && hasStrongNeighbor(strong, x, y, high):
				out.Set(x, y, 0, 255)
			}
		}
	}
	return out, nil
}

// neighborStep quantizes a gradient angle to the pixel offset of the
// neighbor that lies along it.
func neighborStep(angle float64) (dx, dy int) {
	a := math.Mod(angle+math.Pi, math.Pi) // fold to [0, π)
	switch {
	case a < math.Pi/8 || a >= 7*math.Pi/8:
		return 1, 0
	case a < 3*math.Pi/8:
		return 1, 1
	case a < 5*math.Pi/8:
		return 0, 1
	default:
		return -1, 1
	}
}

func hasStrongNeighbor(b *border.Buffer[float64], x, y int, high float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			if (kx != 0 || ky != 0) && b.At(x+kx, y+ky, 0) >= high {
				return true
			}
		}
	}
	return false
}
