package stego

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// BitsPerPixel is the number of payload bits embedded per pixel: the LSB of
// each of the R, G and B channels.
const BitsPerPixel = 3

// Capacity returns the number of payload bits an image can carry.
func Capacity(img image.Image) int {
	bounds := img.Bounds()
	return bounds.Dx() * bounds.Dy() * BitsPerPixel
}

// EncodePNG serializes an image as PNG. PNG is the only output format the
// codec supports: lossy encodings destroy the embedded bits.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePNG parses PNG bytes back into an image.
func DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}
	return img, nil
}

// cloneRGBA copies any image into a fresh mutable RGBA buffer so the caller's
// carrier is never modified in place.
func cloneRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}
