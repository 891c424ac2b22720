package carrier

import (
	"fmt"
	"image"
	"image/color"
)

// gridCells is the identicon grid edge: a 5x5 block pattern mirrored around
// the vertical axis, the classic avatar layout.
const gridCells = 5

// renderIdenticon draws a deterministic avatar from a 32-byte digest. The
// first three digest bytes pick the foreground color; the remaining bytes
// switch cells on or off in the left half of the grid, which is mirrored to
// the right.
func renderIdenticon(digest []byte, size int) (*image.RGBA, error) {
	if len(digest) < 32 {
		return nil, fmt.Errorf("identicon digest too short: %d bytes", len(digest))
	}
	if size < minSize {
		return nil, fmt.Errorf("identicon size %d below minimum %d", size, minSize)
	}

	foreground := color.RGBA{
		// Bias channels upward so the avatar stays visible on the light
		// background.
		R: digest[0]/2 + 64,
		G: digest[1]/2 + 64,
		B: digest[2]/2 + 64,
		A: 255,
	}
	background := color.RGBA{R: 240, G: 240, B: 240, A: 255}

	// Cell on/off pattern for the left half plus center column.
	half := gridCells/2 + 1
	cells := make([]bool, gridCells*half)
	for i := range cells {
		byteIdx := 3 + i/8
		bitIdx := uint(i % 8)
		cells[i] = digest[byteIdx]>>bitIdx&1 == 1
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cellSize := size / gridCells
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			col := x / cellSize
			row := y / cellSize
			if col >= gridCells {
				col = gridCells - 1
			}
			if row >= gridCells {
				row = gridCells - 1
			}
			// Mirror the right half onto the left.
			if col >= half {
				col = gridCells - 1 - col
			}
			if cells[row*half+col] {
				img.Set(x, y, foreground)
			} else {
				img.Set(x, y, background)
			}
		}
	}
	return img, nil
}
