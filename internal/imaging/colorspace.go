package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

// Space names a cylindrical color space.
type Space string

const (
	SpaceHSV Space = "hsv"
	SpaceHSL Space = "hsl"
)

// ParseSpace accepts "hsv" or "hsl" in any case.
func ParseSpace(s string) (Space, error) {
	switch Space(strings.ToLower(s)) {
	case SpaceHSV:
		return SpaceHSV, nil
	case SpaceHSL:
		return SpaceHSL, nil
	}
	return "", fmt.Errorf("unknown color space %q (want hsv or hsl)", s)
}

// ToSpace converts img into a three-channel float buffer. Channel 0 is hue
// in degrees [0, 360); channels 1 and 2 are saturation and value (or
// lightness) in [0, 1]. Fully transparent pixels convert as black.
func ToSpace(img image.Image, space Space) (*raster.Buffer[float64], error) {
	b := img.Bounds()
	out, err := raster.New[float64](b.Dx(), b.Dy(), 3)
	if err != nil {
		return nil, err
	}
	for y := 0; y < out.Height; y++ {
		row := out.Row(y)
		for x := 0; x < out.Width; x++ {
			c, _ := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
			var h, s, v float64
			switch space {
			case SpaceHSV:
				h, s, v = c.Hsv()
			case SpaceHSL:
				h, s, v = c.Hsl()
			default:
				return nil, fmt.Errorf("unknown color space %q", space)
			}
			row[x*3], row[x*3+1], row[x*3+2] = h, s, v
		}
	}
	return out, nil
}

// FromSpace converts a three-channel buffer produced by ToSpace back to an
// opaque RGB image. Out-of-gamut results are clamped.
func FromSpace(buf *raster.Buffer[float64], space Space) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if buf.Channels != 3 {
		return nil, fmt.Errorf("%w: %s needs 3 channels, got %d",
			raster.ErrUnsupportedSampleFormat, space, buf.Channels)
	}
	out := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		row := buf.Row(y)
		for x := 0; x < buf.Width; x++ {
			h, s, v := row[x*3], row[x*3+1], row[x*3+2]
			var c colorful.Color
			switch space {
			case SpaceHSV:
				c = colorful.Hsv(h, s, v)
			case SpaceHSL:
				c = colorful.Hsl(h, s, v)
			default:
				return nil, fmt.Errorf("unknown color space %q", space)
			}
			r, g, bl := c.Clamped().RGB255()
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: bl, A: 255})
		}
	}
	return out, nil
}

// SpaceChannel extracts one channel of ToSpace as an 8-bit gray image:
// hue is mapped from [0, 360) and the other channels from [0, 1] onto 0..255.
func SpaceChannel(img image.Image, space Space, channel int) (*image.Gray, error) {
	if channel < 0 || channel > 2 {
		return nil, fmt.Errorf("channel %d out of range 0..2", channel)
	}
	buf, err := ToSpace(img, space)
	if err != nil {
		return nil, err
	}
	scale := 255.0
	if channel == 0 {
		scale = 255.0 / 360.0
	}
	out := image.NewGray(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		row := buf.Row(y)
		for x := 0; x < buf.Width; x++ {
			out.Pix[y*out.Stride+x] = raster.FromFloat[uint8](row[x*3+channel] * scale)
		}
	}
	return out, nil
}
