package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

func TestToGray_GrayCopiesSamples(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 6, 4))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 10)
	}
	// A sub-image has a non-zero origin and a stride wider than its width.
	sub := src.SubImage(image.Rect(2, 1, 5, 3)).(*image.Gray)

	buf := ToGray(sub)
	if buf.Width != 3 || buf.Height != 2 || buf.Channels != 1 {
		t.Fatalf("shape: got %dx%dx%d, want 3x2x1", buf.Width, buf.Height, buf.Channels)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := src.GrayAt(x+2, y+1).Y
			if got := buf.At(x, y, 0); got != want {
				t.Errorf("(%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestToGray_Color(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want int
	}{
		{"black", color.Black, 0},
		{"white", color.White, 255},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
		{"green", color.RGBA{0, 255, 0, 255}, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := ToGray(createInMemoryImage(3, 3, tt.c))
			got := int(buf.At(1, 1, 0))
			if got < tt.want-1 || got > tt.want+1 {
				t.Errorf("got %d, want %d±1", got, tt.want)
			}
		})
	}
}

func TestToRGB(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	img.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 255})

	buf := ToRGB(img)
	if buf.Channels != 3 {
		t.Fatalf("Channels: got %d, want 3", buf.Channels)
	}
	want := []uint8{10, 20, 30, 200, 100, 50}
	for i, w := range want {
		if buf.Pix[i] != w {
			t.Errorf("Pix[%d]: got %d, want %d", i, buf.Pix[i], w)
		}
	}
}

func TestToSamples(t *testing.T) {
	rgb := createInMemoryImage(4, 4, color.RGBA{1, 2, 3, 255})
	if got := ToSamples(rgb, false).Channels; got != 3 {
		t.Errorf("color image: got %d channels, want 3", got)
	}
	if got := ToSamples(rgb, true).Channels; got != 1 {
		t.Errorf("color image with gray: got %d channels, want 1", got)
	}
	if got := ToSamples(image.NewGray(image.Rect(0, 0, 4, 4)), false).Channels; got != 1 {
		t.Errorf("gray image: got %d channels, want 1", got)
	}
}

func TestFromSamples(t *testing.T) {
	rgb := ToRGB(createInMemoryImage(2, 2, color.RGBA{9, 8, 7, 255}))
	img, err := FromSamples(rgb)
	if err != nil {
		t.Fatalf("FromSamples failed: %v", err)
	}
	r, g, b, a := img.At(1, 1).RGBA()
	if r>>8 != 9 || g>>8 != 8 || b>>8 != 7 || a>>8 != 255 {
		t.Errorf("got (%d,%d,%d,%d), want (9,8,7,255)", r>>8, g>>8, b>>8, a>>8)
	}

	gray, _ := raster.New[uint8](3, 2, 1)
	gray.Fill(42)
	img, err = FromSamples(gray)
	if err != nil {
		t.Fatalf("FromSamples failed: %v", err)
	}
	if g, ok := img.(*image.Gray); !ok || g.GrayAt(2, 1).Y != 42 {
		t.Errorf("one channel should give *image.Gray with the samples, got %T", img)
	}

	two, _ := raster.New[uint8](2, 2, 2)
	if _, err := FromSamples(two); !errors.Is(err, raster.ErrUnsupportedSampleFormat) {
		t.Errorf("two channels: got %v, want ErrUnsupportedSampleFormat", err)
	}
}

func TestRender(t *testing.T) {
	buf, _ := raster.New[float64](3, 1, 1)
	copy(buf.Pix, []float64{-10, 0, 300})

	img, err := Render(buf, false)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	g := img.(*image.Gray)
	if g.Pix[0] != 0 || g.Pix[1] != 0 || g.Pix[2] != 255 {
		t.Errorf("clamped render: got %v, want [0 0 255]", g.Pix[:3])
	}

	img, err = Render(buf, true)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	g = img.(*image.Gray)
	// (0 - -10) * 255/310 = 8.2
	if g.Pix[0] != 0 || g.Pix[1] != 8 || g.Pix[2] != 255 {
		t.Errorf("stretched render: got %v, want [0 8 255]", g.Pix[:3])
	}

	flat, _ := raster.New[float64](2, 2, 1)
	flat.Fill(7)
	img, err = Render(flat, true)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img.(*image.Gray).Pix[0] != 0 {
		t.Error("a constant buffer should stretch to black")
	}
}

func TestMaskFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	copy(img.Pix, []uint8{0, 100, 101})

	mask := MaskFromImage(img, 100)
	want := []uint8{0, 0, 255}
	for i, w := range want {
		if mask.Pix[i] != w {
			t.Errorf("Pix[%d]: got %d, want %d", i, mask.Pix[i], w)
		}
	}
	if img.Pix[2] != 101 {
		t.Error("MaskFromImage must not modify its input")
	}
}
