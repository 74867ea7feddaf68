package morphology

import (
	"fmt"
	"strings"

	"github.com/ironsheep/image-filter-mcp/internal/convolve"
)

// Square returns a full (2*xRadius+1)×(2*yRadius+1) element.
func Square(xRadius, yRadius int) *convolve.Kernel {
	w, h := 2*xRadius+1, 2*yRadius+1
	k := &convolve.Kernel{Width: w, Height: h, Values: make([]float64, w*h)}
	for i := range k.Values {
		k.Values[i] = 1
	}
	return k
}

// Cross returns the plus-shaped element of the given radius: the center
// row and column only.
func Cross(radius int) *convolve.Kernel {
	n := 2*radius + 1
	k := &convolve.Kernel{Width: n, Height: n, Values: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		k.Values[radius*n+i] = 1
		k.Values[i*n+radius] = 1
	}
	return k
}

// Disk returns the element of all taps within Euclidean distance radius of
// the center.
func Disk(radius int) *convolve.Kernel {
	n := 2*radius + 1
	k := &convolve.Kernel{Width: n, Height: n, Values: make([]float64, n*n)}
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= radius*radius {
				k.Values[(y+radius)*n+x+radius] = 1
			}
		}
	}
	return k
}

// Element builds a named element: square, cross or disk.
func Element(shape string, radius int) (*convolve.Kernel, error) {
	if radius < 0 {
		return nil, fmt.Errorf("element radius must not be negative, got %d", radius)
	}
	switch strings.ToLower(shape) {
	case "", "square":
		return Square(radius, radius), nil
	case "cross":
		return Cross(radius), nil
	case "disk":
		return Disk(radius), nil
	}
	return nil, fmt.Errorf("unknown element shape %q (want square, cross or disk)", shape)
}
