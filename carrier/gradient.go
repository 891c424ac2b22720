package carrier

import (
	"encoding/binary"
	"image"
	"image/color"
)

// renderGradient is the guaranteed fallback: a two-corner color gradient
// with deterministic noise, seeded from the digest. Visually unremarkable
// but unique per seed, and it cannot fail.
func renderGradient(digest []byte, size int) *image.RGBA {
	if size < 1 {
		size = DefaultSize
	}

	var from, to color.RGBA
	if len(digest) >= 6 {
		from = color.RGBA{R: digest[0], G: digest[1], B: digest[2], A: 255}
		to = color.RGBA{R: digest[3], G: digest[4], B: digest[5], A: 255}
	} else {
		from = color.RGBA{R: 32, G: 64, B: 128, A: 255}
		to = color.RGBA{R: 192, G: 96, B: 48, A: 255}
	}

	var state uint64 = 0x9E3779B97F4A7C15
	if len(digest) >= 14 {
		state ^= binary.BigEndian.Uint64(digest[6:14])
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	span := 2 * (size - 1)
	if span == 0 {
		span = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// xorshift noise keeps the gradient from being a flat ramp.
			state ^= state << 13
			state ^= state >> 7
			state ^= state << 17
			noise := int(state % 17)

			t := x + y
			img.Set(x, y, color.RGBA{
				R: lerpChannel(from.R, to.R, t, span, noise),
				G: lerpChannel(from.G, to.G, t, span, noise),
				B: lerpChannel(from.B, to.B, t, span, noise),
				A: 255,
			})
		}
	}
	return img
}

func lerpChannel(from, to uint8, t, span, noise int) uint8 {
	v := int(from) + (int(to)-int(from))*t/span + noise
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
