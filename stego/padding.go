package stego

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

const (
	// paddingMin and paddingMax bound the deterministic padding length.
	paddingMin = 500
	paddingMax = 1500

	// lengthPrefixDigits is the width of the decimal padding-length prefix.
	lengthPrefixDigits = 6

	// StegoKeyLength is the length of generated stego keys.
	StegoKeyLength = 32
)

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewStegoKey generates a fresh random alphanumeric stego key.
func NewStegoKey() (string, error) {
	raw := make([]byte, StegoKeyLength)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("failed to generate stego key: %w", err)
	}
	key := make([]byte, StegoKeyLength)
	for i, b := range raw {
		key[i] = keyAlphabet[int(b)%len(keyAlphabet)]
	}
	return string(key), nil
}

// hash31 is a 31-multiplier string hash. It only obscures the padding length
// from casual inspection; it is not a security boundary.
func hash31(s string) int32 {
	var h int32
	for _, c := range s {
		h = h*31 + c
	}
	return h
}

// PaddingLength returns the deterministic padding length for a stego key,
// always within [paddingMin, paddingMax].
func PaddingLength(stegoKey string) int {
	h := hash31(stegoKey)
	if h < 0 {
		h = -h
	}
	return paddingMin + int(h)%(paddingMax-paddingMin+1)
}

// paddingBytes derives n filler bytes from the stego key: a SHA-256 stream
// mapped into the printable ASCII range. Key-dependent rather than random,
// so two keys produce different filler, and never NUL, which the codec
// reserves as the stream terminator.
func paddingBytes(stegoKey string, n int) []byte {
	out := make([]byte, 0, n)
	block := sha256.Sum256([]byte(stegoKey))
	for len(out) < n {
		for _, b := range block {
			if len(out) == n {
				break
			}
			out = append(out, b%94+33)
		}
		block = sha256.Sum256(block[:])
	}
	return out
}
