// Package median applies a rank filter over the windows of a bordered buffer.
package median

import (
	"fmt"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

// Apply replaces every core sample with the median of the
// (2*xRadius+1)×(2*yRadius+1) window around it, per channel. The halo of in
// must be at least xRadius by yRadius.
func Apply[T raster.Sample](in *border.Buffer[T], xRadius, yRadius int) (*raster.Buffer[T], error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil bordered buffer", raster.ErrInvalidView)
	}
	if xRadius < 0 || yRadius < 0 {
		return nil, fmt.Errorf("%w: window radius %dx%d", raster.ErrInvalidBorderRadius, xRadius, yRadius)
	}
	if in.XRadius() < xRadius || in.YRadius() < yRadius {
		return nil, fmt.Errorf("%w: border %dx%d, window needs %dx%d",
			raster.ErrInsufficientBorder, in.XRadius(), in.YRadius(), xRadius, yRadius)
	}

	core := in.Core()
	out, err := raster.New[T](core.Width, core.Height, core.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate median output: %w", err)
	}

	full := in.Full()
	ch := full.Channels
	ww := 2*xRadius + 1
	window := make([]T, ww*(2*yRadius+1))

	for y := 0; y < core.Height; y++ {
		dst := out.Row(y)
		for x := 0; x < core.Width; x++ {
			for c := 0; c < ch; c++ {
				n := 0
				for wy := y - yRadius; wy <= y+yRadius; wy++ {
					i := full.Offset(x-xRadius+in.XRadius(), wy+in.YRadius()) + c
					for k := 0; k < ww; k, i = k+1, i+ch {
						window[n] = full.Pix[i]
						n++
					}
				}
				dst[x*ch+c] = Select(window, len(window)/2)
			}
		}
	}
	return out, nil
}

// Select returns the k-th smallest element of s (0-based), reordering s in
// the process. It uses median-of-three quickselect.
func Select[T raster.Sample](s []T, k int) T {
	lo, hi := 0, len(s)-1
	for hi > lo {
		if hi == lo+1 {
			if s[lo] > s[hi] {
				s[lo], s[hi] = s[hi], s[lo]
			}
			break
		}

		mid := (lo + hi) / 2
		if s[mid] > s[hi] {
			s[mid], s[hi] = s[hi], s[mid]
		}
		if s[lo] > s[hi] {
			s[lo], s[hi] = s[hi], s[lo]
		}
		if s[mid] > s[lo] {
			s[mid], s[lo] = s[lo], s[mid]
		}
		// s[lo] is now the median of the three and the pivot.
		s[mid], s[lo+1] = s[lo+1], s[mid]

		i, j := lo+1, hi
		pivot := s[lo]
		for {
			for i++; s[i] < pivot; i++ {
			}
			for j--; s[j] > pivot; j-- {
			}
			if j < i {
				break
			}
			s[i], s[j] = s[j], s[i]
		}
		s[lo], s[j] = s[j], s[lo]

		if j <= k {
			lo = i
		}
		if j >= k {
			hi = j - 1
		}
	}
	return s[k]
}
