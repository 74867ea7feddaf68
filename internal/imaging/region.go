package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangle in image coordinates. (X1, Y1) is inclusive and
// (X2, Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// NamedRegion resolves a named part of a w×h image.
//
// Supported names: top-left, top-right, bottom-left, bottom-right,
// top-half, bottom-half, left-half, right-half, center (the middle 50%)
// and full.
func NamedRegion(name string, w, h int) (Region, error) {
	midX, midY := w/2, h/2
	switch name {
	case "", "full":
		return Region{0, 0, w, h}, nil
	case "top-left":
		return Region{0, 0, midX, midY}, nil
	case "top-right":
		return Region{midX, 0, w, midY}, nil
	case "bottom-left":
		return Region{0, midY, midX, h}, nil
	case "bottom-right":
		return Region{midX, midY, w, h}, nil
	case "top-half":
		return Region{0, 0, w, midY}, nil
	case "bottom-half":
		return Region{0, midY, w, h}, nil
	case "left-half":
		return Region{0, 0, midX, h}, nil
	case "right-half":
		return Region{midX, 0, w, h}, nil
	case "center":
		qW, qH := w/4, h/4
		return Region{qW, qH, w - qW, h - qH}, nil
	}
	return Region{}, fmt.Errorf("unknown region: %s", name)
}

// Crop returns the part of img inside r. Grayscale images stay grayscale.
//
// A filter run on a crop sees the crop's own edges as image edges, so its
// halo is synthesized from the crop rather than from the surrounding pixels.
func Crop(img image.Image, r Region) (image.Image, error) {
	bounds := img.Bounds()
	rect := r.Rect().Add(bounds.Min)
	if !rect.In(bounds) {
		return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Dx(), bounds.Dy())
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	if rect == bounds {
		return img, nil
	}
	if g, ok := img.(*image.Gray); ok {
		return g.SubImage(rect), nil
	}
	return imaging.Crop(img, rect), nil
}
