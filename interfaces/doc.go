// Package interfaces defines the core types and contracts of the wallet
// security system. It provides the shared vocabulary between components
// without implementation details: the protected secret material, the
// encryption envelope produced by the authenticated cipher, the tiered
// artifact sum type, the error taxonomy, and the artifact storage contract.
//
// # Security tiers
//
// A wallet's secret material is protected at one of three escalating tiers:
//
//   - Standard: password-based symmetric encryption with a legacy-compatible
//     single-string envelope format.
//   - Enhanced: authenticated encryption (AES-256-GCM) with a structured
//     envelope, no steganography.
//   - Maximum: authenticated encryption combined with LSB image
//     steganography and an independent password-stretching layer.
//
// Each tier produces a distinct artifact shape. SecuredArtifact is the tagged
// union over the three shapes; the tag is checked before any cryptographic
// operation runs, so an artifact created at one tier can never be fed into
// another tier's recovery path.
//
// # Error taxonomy
//
// All failure modes surface as sentinel errors declared in this package and
// matched with errors.Is. Recovery through the combined (Maximum) path
// intentionally collapses every inner failure into ErrRetrieval so a caller
// cannot distinguish a wrong password from a corrupted stego image.
package interfaces
