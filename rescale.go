package bury

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// requiredPixelCount computes required_pixels = offset + sum(s_1..s_N)
// per spec §4.7, where N is the smallest stride count such that
// N*bitsPerPixel >= payloadBits. It replays the same password-derived
// stride sequence the encoder/decoder use, unbounded by any raster size
// (this is purely a capacity calculation).
func requiredPixelCount(pdp PDP, bitsPerPixel, payloadBits int) int {
	if bitsPerPixel <= 0 {
		bitsPerPixel = 1
	}
	n := (payloadBits + bitsPerPixel - 1) / bitsPerPixel

	sg := NewStrideGenerator(pdp.StrideSeed, pdp.MaxStride)
	cursor := int(pdp.Offset)
	for i := 0; i < n; i++ {
		cursor += sg.Next()
	}
	return cursor
}

// rescaleDimensions computes the minimum width/height that still fits
// requiredPixels while preserving the original aspect ratio, per spec
// §4.7's formulas. It returns changed=false (and the original w,h) when
// no strict shrink is possible — the codec must never enlarge a carrier
// (spec §4.7: a too-large carrier with a short payload would itself be
// a steganalysis tell).
func rescaleDimensions(w, h, requiredPixels int) (newW, newH int, changed bool) {
	longSide, shortSide := w, h
	if h > w {
		longSide, shortSide = h, w
	}
	ratio := float64(longSide) / float64(shortSide)

	n := math.Ceil(math.Sqrt(float64(requiredPixels) / ratio))

	if w >= h {
		newW = int(math.Ceil(n * ratio))
		newH = int(n)
	} else {
		newW = int(n)
		newH = int(math.Ceil(n * ratio))
	}

	if newW*newH >= requiredPixels && newW*newH < w*h {
		return newW, newH, true
	}
	return w, h, false
}

// Rescale shrinks carrier to the minimum size that still fits a payload
// of payloadBits bits under channels, preserving aspect ratio (spec
// §4.7). It returns the original raster unchanged (ok=false) if no
// strict shrink is possible or beneficial.
func Rescale(carrier *NRGBARaster, pdp PDP, channels Channels, payloadBits int) (out *NRGBARaster, ok bool) {
	required := requiredPixelCount(pdp, channels.BitsPerPixel(), payloadBits)
	newW, newH, changed := rescaleDimensions(carrier.Width(), carrier.Height(), required)
	if !changed {
		debugLog("rescale skipped", "width", carrier.Width(), "height", carrier.Height(), "required_pixels", required)
		return carrier, false
	}

	dst := image.NewNRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), carrier.Image(), carrier.Image().Bounds(), xdraw.Src, nil)

	debugLog("rescaled carrier", "from_w", carrier.Width(), "from_h", carrier.Height(), "to_w", newW, "to_h", newH, "required_pixels", required)
	return &NRGBARaster{img: dst}, true
}
