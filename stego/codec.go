package stego

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/sealpact/walletcore/interfaces"
)

// Hide embeds payload into the carrier image and returns the stego image
// together with the stego key required to extract it. If stegoKey is empty a
// fresh random key is generated. The carrier is never modified; the returned
// image is an independent RGBA buffer.
func Hide(payload string, carrier image.Image, stegoKey string) (*image.RGBA, string, error) {
	if carrier == nil {
		return nil, "", errors.New("carrier image is required")
	}
	if bytes.IndexByte([]byte(payload), 0) >= 0 {
		return nil, "", errors.New("payload must not contain NUL bytes; base64-encode binary data first")
	}

	if stegoKey == "" {
		key, err := NewStegoKey()
		if err != nil {
			return nil, "", err
		}
		stegoKey = key
	}

	encoded := encodeStream(payload, stegoKey)
	bits := len(encoded) * 8
	if capacity := Capacity(carrier); bits > capacity {
		return nil, "", fmt.Errorf("%w: need %d bits, carrier holds %d", interfaces.ErrCapacityExceeded, bits, capacity)
	}

	img := cloneRGBA(carrier)
	pixels := len(img.Pix) / 4

	// Translucent pixels go through alpha premultiplication on the PNG
	// round-trip, which corrupts the color LSBs. Flatten to opaque.
	for pix := 0; pix < pixels; pix++ {
		img.Pix[pix*4+3] = 0xFF
	}

	bitIdx := 0
	for pix := 0; pix < pixels && bitIdx < bits; pix++ {
		base := pix * 4
		for channel := 0; channel < BitsPerPixel && bitIdx < bits; channel++ {
			bit := encoded[bitIdx/8] >> (7 - bitIdx%8) & 1
			if bit == 1 {
				img.Pix[base+channel] |= 1
			} else {
				img.Pix[base+channel] &^= 1
			}
			bitIdx++
		}
	}

	return img, stegoKey, nil
}

// Extract recovers the payload hidden in a stego image. The stego key must
// be the one returned by Hide; any mismatch between the recovered stream and
// the key's padding expectation fails with interfaces.ErrExtraction.
func Extract(stegoImage image.Image, stegoKey string) (string, error) {
	if stegoImage == nil {
		return "", errors.New("stego image is required")
	}
	if stegoKey == "" {
		return "", fmt.Errorf("%w: stego key is required", interfaces.ErrExtraction)
	}

	img := cloneRGBA(stegoImage)
	decoded, ok := readStream(img)
	if !ok {
		return "", fmt.Errorf("%w: no terminator found", interfaces.ErrExtraction)
	}
	if len(decoded) < lengthPrefixDigits {
		return "", fmt.Errorf("%w: stream shorter than length prefix", interfaces.ErrExtraction)
	}

	padLen, err := strconv.Atoi(string(decoded[:lengthPrefixDigits]))
	if err != nil || padLen < paddingMin || padLen > paddingMax {
		return "", fmt.Errorf("%w: invalid padding length prefix", interfaces.ErrExtraction)
	}
	if padLen != PaddingLength(stegoKey) {
		return "", fmt.Errorf("%w: padding length does not match key", interfaces.ErrExtraction)
	}

	payloadLen := len(decoded) - lengthPrefixDigits - padLen
	if payloadLen < 0 {
		return "", fmt.Errorf("%w: padding length inconsistent with stream", interfaces.ErrExtraction)
	}
	if !bytes.Equal(decoded[lengthPrefixDigits+payloadLen:], paddingBytes(stegoKey, padLen)) {
		return "", fmt.Errorf("%w: padding bytes do not match key", interfaces.ErrExtraction)
	}

	return string(decoded[lengthPrefixDigits : lengthPrefixDigits+payloadLen]), nil
}

// encodeStream wraps the payload for embedding:
// [6-digit padding length][payload][padding][NUL].
func encodeStream(payload, stegoKey string) []byte {
	padLen := PaddingLength(stegoKey)
	encoded := make([]byte, 0, lengthPrefixDigits+len(payload)+padLen+1)
	encoded = append(encoded, fmt.Sprintf("%0*d", lengthPrefixDigits, padLen)...)
	encoded = append(encoded, payload...)
	encoded = append(encoded, paddingBytes(stegoKey, padLen)...)
	encoded = append(encoded, 0)
	return encoded
}

// readStream collects LSBs from R, G and B of each pixel in row-major order
// and assembles bytes MSB-first until a NUL byte is reached. The second
// return value reports whether a terminator was found at all.
func readStream(img *image.RGBA) ([]byte, bool) {
	var decoded []byte
	var cur byte
	nbits := 0

	pixels := len(img.Pix) / 4
	for pix := 0; pix < pixels; pix++ {
		base := pix * 4
		for channel := 0; channel < BitsPerPixel; channel++ {
			cur = cur<<1 | img.Pix[base+channel]&1
			nbits++
			if nbits == 8 {
				if cur == 0 {
					return decoded, true
				}
				decoded = append(decoded, cur)
				cur = 0
				nbits = 0
			}
		}
	}
	return decoded, false
}
