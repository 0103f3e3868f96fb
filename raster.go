package bury

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/pkg/errors"
)

// RasterView abstracts a 24-bit-per-pixel true-color RGB raster. It is
// the only surface the codec touches; decoding/encoding to a concrete
// file format (PNG, BMP, ...) is an external collaborator's job.
type RasterView interface {
	Width() int
	Height() int

	// GetPixel returns the RGB triple at (x, y). It returns
	// ErrBadGeometry if (x, y) is out of bounds.
	GetPixel(x, y int) (r, g, b uint8, err error)

	// SetPixel writes the RGB triple at (x, y). It returns
	// ErrBadGeometry if (x, y) is out of bounds.
	SetPixel(x, y int, r, g, b uint8) error

	// GetPixelByIndex/SetPixelByIndex address a pixel by its row-major
	// linear index (y*Width()+x), matching the stride schedule's
	// addressing.
	GetPixelByIndex(i int) (r, g, b uint8, err error)
	SetPixelByIndex(i int, r, g, b uint8) error
}

// NRGBARaster is a RasterView backed by a stdlib *image.NRGBA.
type NRGBARaster struct {
	img *image.NRGBA
}

// NewNRGBARaster upgrades an arbitrary image.Image (palette/indexed,
// grayscale, or already-NRGBA) to a true-color raster. Paletted and
// other color-model inputs are flattened onto a fresh NRGBA canvas with
// image/draw, which is the stdlib-idiomatic way to do this for an
// in-memory raster (see DESIGN.md "raster.go — RasterView").
func NewNRGBARaster(src image.Image) (*NRGBARaster, error) {
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.Wrap(ErrUnsupportedCarrier, "carrier has zero area")
	}

	if nrgba, ok := src.(*image.NRGBA); ok {
		return &NRGBARaster{img: nrgba}, nil
	}

	upgraded := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(upgraded, upgraded.Bounds(), src, bounds.Min, draw.Src)
	return &NRGBARaster{img: upgraded}, nil
}

// NewBlankNRGBARaster allocates a w×h raster filled with opaque black.
func NewBlankNRGBARaster(w, h int) *NRGBARaster {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)
	return &NRGBARaster{img: img}
}

func (r *NRGBARaster) Width() int  { return r.img.Bounds().Dx() }
func (r *NRGBARaster) Height() int { return r.img.Bounds().Dy() }

func (r *NRGBARaster) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width() && y < r.Height()
}

func (r *NRGBARaster) GetPixel(x, y int) (uint8, uint8, uint8, error) {
	if !r.inBounds(x, y) {
		return 0, 0, 0, errors.Wrapf(ErrBadGeometry, "get pixel (%d,%d) out of %dx%d", x, y, r.Width(), r.Height())
	}
	c := r.img.NRGBAAt(r.img.Bounds().Min.X+x, r.img.Bounds().Min.Y+y)
	return c.R, c.G, c.B, nil
}

func (r *NRGBARaster) SetPixel(x, y int, rr, g, b uint8) error {
	if !r.inBounds(x, y) {
		return errors.Wrapf(ErrBadGeometry, "set pixel (%d,%d) out of %dx%d", x, y, r.Width(), r.Height())
	}
	off := r.img.Bounds()
	c := r.img.NRGBAAt(off.Min.X+x, off.Min.Y+y)
	c.R, c.G, c.B = rr, g, b
	r.img.SetNRGBA(off.Min.X+x, off.Min.Y+y, c)
	return nil
}

func (r *NRGBARaster) indexToXY(i int) (int, int) {
	return i % r.Width(), i / r.Width()
}

func (r *NRGBARaster) GetPixelByIndex(i int) (uint8, uint8, uint8, error) {
	x, y := r.indexToXY(i)
	return r.GetPixel(x, y)
}

func (r *NRGBARaster) SetPixelByIndex(i int, rr, g, b uint8) error {
	x, y := r.indexToXY(i)
	return r.SetPixel(x, y, rr, g, b)
}

// Image returns the underlying *image.NRGBA, for callers that need to
// hand the result to an external image/png encoder.
func (r *NRGBARaster) Image() *image.NRGBA {
	return r.img
}
