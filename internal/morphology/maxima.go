package morphology

import (
	"fmt"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

// LocalMaxima marks with 255 every core pixel above threshold that is not
// smaller than any of its eight neighbors. Plateaus mark every pixel on
// them. in must be single-channel with a halo of at least 1; the halo
// decides whether edge pixels can be maxima.
func LocalMaxima[T raster.Sample](in *border.Buffer[T], threshold float64) (*raster.Buffer[uint8], error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil bordered buffer", raster.ErrInvalidView)
	}
	core := in.Core()
	if core.Channels != 1 {
		return nil, fmt.Errorf("%w: buffer has %d channels, want 1", raster.ErrUnsupportedSampleFormat, core.Channels)
	}
	if in.XRadius() < 1 || in.YRadius() < 1 {
		return nil, fmt.Errorf("%w: border %dx%d, maxima need 1x1",
			raster.ErrInsufficientBorder, in.XRadius(), in.YRadius())
	}

	out, err := raster.New[uint8](core.Width, core.Height, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate maxima output: %w", err)
	}
	full := in.Full()
	s := full.Stride
	neighbors := [8]int{-s - 1, -s, -s + 1, -1, 1, s - 1, s, s + 1}

	for y := 0; y < core.Height; y++ {
		dst := out.Row(y)
		i := full.Offset(in.XRadius(), y+in.YRadius())
		for x := range dst {
			v := full.Pix[i+x]
			if float64(v) <= threshold {
				continue
			}
			peak := true
			for _, d := range neighbors {
				if v < full.Pix[i+x+d] {
					peak = false
					break
				}
			}
			if peak {
				dst[x] = 255
			}
		}
	}
	return out, nil
}
