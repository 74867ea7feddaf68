package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

// ToGray converts img to a single-channel 8-bit buffer.
//
// Images that are already *image.Gray are copied sample for sample; anything
// else goes through imaging.Grayscale, which weights R, G and B by
// 0.299, 0.587 and 0.114.
func ToGray(img image.Image) *raster.Buffer[uint8] {
	b := img.Bounds()
	out := &raster.Buffer[uint8]{
		Pix:      make([]uint8, b.Dx()*b.Dy()),
		Width:    b.Dx(),
		Height:   b.Dy(),
		Stride:   b.Dx(),
		Channels: 1,
	}

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < out.Height; y++ {
			start := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Row(y), g.Pix[start:start+out.Width])
		}
		return out
	}

	gray := imaging.Grayscale(img)
	for y := 0; y < out.Height; y++ {
		row := out.Row(y)
		src := gray.Pix[y*gray.Stride:]
		for x := range row {
			row[x] = src[x*4]
		}
	}
	return out
}

// ToRGB converts img to a three-channel 8-bit buffer in R, G, B order.
// Alpha is dropped; the color channels keep the premultiplied values of the
// RGBA conversion.
func ToRGB(img image.Image) *raster.Buffer[uint8] {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	out := &raster.Buffer[uint8]{
		Pix:      make([]uint8, b.Dx()*b.Dy()*3),
		Width:    b.Dx(),
		Height:   b.Dy(),
		Stride:   b.Dx() * 3,
		Channels: 3,
	}
	for y := 0; y < out.Height; y++ {
		src, dst := rgba.Pix[y*rgba.Stride:], out.Row(y)
		for x := 0; x < out.Width; x++ {
			copy(dst[x*3:x*3+3], src[x*4:x*4+3])
		}
	}
	return out
}

// ToSamples picks the buffer layout a filter should work on: one channel for
// grayscale sources or when gray is set, three otherwise.
func ToSamples(img image.Image, gray bool) *raster.Buffer[uint8] {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return ToGray(img)
	}
	if gray {
		return ToGray(img)
	}
	return ToRGB(img)
}

// FromSamples packs an 8-bit buffer with 1, 3 or 4 channels into an image.
// Three-channel buffers get an opaque alpha.
func FromSamples(buf *raster.Buffer[uint8]) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, buf.Width, buf.Height)

	switch buf.Channels {
	case 1:
		out := image.NewGray(rect)
		for y := 0; y < buf.Height; y++ {
			copy(out.Pix[y*out.Stride:], buf.Row(y))
		}
		return out, nil
	case 3:
		out := image.NewNRGBA(rect)
		for y := 0; y < buf.Height; y++ {
			src, dst := buf.Row(y), out.Pix[y*out.Stride:]
			for x := 0; x < buf.Width; x++ {
				dst[x*4+0] = src[x*3+0]
				dst[x*4+1] = src[x*3+1]
				dst[x*4+2] = src[x*3+2]
				dst[x*4+3] = 255
			}
		}
		return out, nil
	case 4:
		out := image.NewRGBA(rect)
		for y := 0; y < buf.Height; y++ {
			copy(out.Pix[y*out.Stride:], buf.Row(y))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: cannot build an image from %d channels",
		raster.ErrUnsupportedSampleFormat, buf.Channels)
}

// Render renders a float buffer as an 8-bit image.
//
// With stretch set, each buffer is linearly rescaled so its minimum maps to
// 0 and its maximum to 255 (a constant buffer becomes black). Otherwise the
// samples are rounded and clamped to 0..255.
func Render(buf *raster.Buffer[float64], stretch bool) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	lo, hi := buf.MinMax()
	scale := 1.0
	if stretch {
		if hi > lo {
			scale = 255 / (hi - lo)
		} else {
			scale = 0
		}
	} else {
		lo = 0
	}

	out, err := raster.New[uint8](buf.Width, buf.Height, buf.Channels)
	if err != nil {
		return nil, err
	}
	for y := 0; y < buf.Height; y++ {
		src, dst := buf.Row(y), out.Row(y)
		for i, v := range src {
			dst[i] = raster.FromFloat[uint8]((v - lo) * scale)
		}
	}
	return FromSamples(out)
}

// MaskFromImage thresholds img to a single-channel mask: 0 where the gray
// level is at or below threshold, 255 elsewhere.
func MaskFromImage(img image.Image, threshold uint8) *raster.Buffer[uint8] {
	gray := ToGray(img)
	for i, v := range gray.Pix {
		if v <= threshold {
			gray.Pix[i] = 0
		} else {
			gray.Pix[i] = 255
		}
	}
	return gray
}
