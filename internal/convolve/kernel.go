package convolve

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/convolution"

	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

// Kernel is a Width×Height matrix of coefficients stored row-major.
// Its center cell is (Width/2, Height/2); Apply requires both dimensions to
// be odd so that the center is unique.
type Kernel struct {
	Width  int
	Height int
	Values []float64
}

// NewKernel copies values into a new kernel. len(values) must equal
// width*height.
func NewKernel(width, height int, values []float64) (*Kernel, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("kernel size %dx%d must be positive", width, height)
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("kernel %dx%d needs %d values, got %d", width, height, width*height, len(values))
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Kernel{Width: width, Height: height, Values: v}, nil
}

// Validate checks that both dimensions are positive and odd.
func (k *Kernel) Validate() error {
	if k == nil {
		return fmt.Errorf("%w: nil kernel", raster.ErrOddKernelDimensionRequired)
	}
	if k.Width <= 0 || k.Height <= 0 || k.Width%2 == 0 || k.Height%2 == 0 {
		return fmt.Errorf("%w: got %dx%d", raster.ErrOddKernelDimensionRequired, k.Width, k.Height)
	}
	if len(k.Values) != k.Width*k.Height {
		return fmt.Errorf("kernel %dx%d has %d values", k.Width, k.Height, len(k.Values))
	}
	return nil
}

// CenterX is the column of the center tap.
func (k *Kernel) CenterX() int { return k.Width / 2 }

// CenterY is the row of the center tap.
func (k *Kernel) CenterY() int { return k.Height / 2 }

// At returns the coefficient at column x, row y.
func (k *Kernel) At(x, y int) float64 { return k.Values[y*k.Width+x] }

// Sum returns the sum of all coefficients.
func (k *Kernel) Sum() float64 {
	var s float64
	for _, v := range k.Values {
		s += v
	}
	return s
}

// Normalized returns a copy scaled so the coefficients sum to 1.
// Kernels summing to zero (edge detectors) are returned unscaled.
func (k *Kernel) Normalized() *Kernel {
	out := &Kernel{Width: k.Width, Height: k.Height, Values: make([]float64, len(k.Values))}
	copy(out.Values, k.Values)
	sum := k.Sum()
	if sum == 0 {
		return out
	}
	for i := range out.Values {
		out.Values[i] /= sum
	}
	return out
}

// Transposed returns a copy with rows and columns swapped.
func (k *Kernel) Transposed() *Kernel {
	out := &Kernel{Width: k.Height, Height: k.Width, Values: make([]float64, len(k.Values))}
	for y := 0; y < k.Height; y++ {
		for x := 0; x < k.Width; x++ {
			out.Values[x*out.Width+y] = k.At(x, y)
		}
	}
	return out
}

// Box returns a normalized (2*xRadius+1)×(2*yRadius+1) averaging kernel.
func Box(xRadius, yRadius int) *Kernel {
	w, h := 2*xRadius+1, 2*yRadius+1
	k := &Kernel{Width: w, Height: h, Values: make([]float64, w*h)}
	for i := range k.Values {
		k.Values[i] = 1 / float64(w*h)
	}
	return k
}

// FromMatrix converts any bild convolution matrix into a Kernel.
func FromMatrix(m convolution.Matrix) *Kernel {
	w, h := m.MaxX(), m.MaxY()
	k := &Kernel{Width: w, Height: h, Values: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			k.Values[y*w+x] = m.At(x, y)
		}
	}
	return k
}

// ToMatrix returns the kernel as a bild convolution kernel.
func (k *Kernel) ToMatrix() *convolution.Kernel {
	m := convolution.NewKernel(k.Width, k.Height)
	copy(m.Matrix, k.Values)
	return m
}

// Gaussian returns a normalized horizontal 1D Gaussian kernel with standard
// deviation sigma and radius ceil(3*sigma). Use Transposed for the vertical
// pass of a separable blur.
func Gaussian(sigma float64) *Kernel {
	if sigma <= 0 {
		return &Kernel{Width: 1, Height: 1, Values: []float64{1}}
	}
	radius := int(math.Ceil(3 * sigma))
	length := 2*radius + 1
	sfactor := -0.5 / (sigma * sigma)

	m := convolution.NewKernel(length, 1)
	for i, x := 0, -float64(radius); i < length; i, x = i+1, x+1 {
		m.Matrix[i] = math.Exp(sfactor * x * x)
	}
	return FromMatrix(m.Normalized())
}

// Gaussian2D returns the outer product of Gaussian(sigma) with itself.
func Gaussian2D(sigma float64) *Kernel {
	g := Gaussian(sigma)
	n := g.Width
	k := &Kernel{Width: n, Height: n, Values: make([]float64, n*n)}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			k.Values[y*n+x] = g.Values[x] * g.Values[y]
		}
	}
	return k
}

var (
	sobelX = []float64{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}
	sobelY = []float64{
		1, 2, 1,
		0, 0, 0,
		-1, -2, -1,
	}
)

// SobelX returns the horizontal-gradient Sobel kernel.
func SobelX() *Kernel {
	k, _ := NewKernel(3, 3, sobelX)
	return k
}

// SobelY returns the vertical-gradient Sobel kernel.
func SobelY() *Kernel {
	k, _ := NewKernel(3, 3, sobelY)
	return k
}
