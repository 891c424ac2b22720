// Package carrier supplies carrier images for the steganographic codec.
//
// The provider's contract is that it never fails for a missing asset: given
// a seed it produces a deterministic, visually distinct identicon-style
// avatar so the same identity always gets a recognizable carrier, and if
// avatar generation cannot run it degrades to a seeded gradient-plus-noise
// pattern with the same determinism guarantee. Degradation costs visual
// quality, never correctness.
//
// ProvideQR offers an alternative carrier that renders the seed as a QR
// code, for callers that want an image with a plausible reason to sit next
// to a wallet record.
package carrier
