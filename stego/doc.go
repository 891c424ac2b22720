// Package stego implements the LSB steganography codec of the wallet
// security core.
//
// Hide writes one payload bit into the least-significant bit of each of the
// R, G and B channels of every pixel (3 bits per pixel, alpha untouched),
// giving a capacity of 3×pixelCount bits. Before embedding, the payload is
// wrapped as
//
//	[6-digit decimal padding length][payload][padding bytes][NUL]
//
// where the padding length (500-1500 bytes) and the padding bytes themselves
// are derived deterministically from the stego key. The padding obscures the
// true payload length from naive size-based steganalysis; it is length
// obfuscation, not a cryptographic boundary. The stego key is therefore a
// genuine second factor: possession of the image alone is not enough to
// interpret the embedded stream.
//
// Extract reads the LSBs back in the same order, stops at the NUL
// terminator, and cross-checks the recovered padding length against both the
// stream length and the key-derived expectation. Any inconsistency surfaces
// as interfaces.ErrExtraction: wrong key, wrong image, or an image that went
// through lossy re-encoding.
//
// The embedded bits only survive lossless encodings. EncodePNG is the only
// serialization this package offers; re-saving a stego image as JPEG,
// resizing it, or converting its color space destroys the hidden data.
//
// Payloads are treated as 8-bit byte strings and must not contain NUL
// bytes; callers hiding binary data must base64-encode it first.
package stego
