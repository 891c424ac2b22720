// Package security composes the wallet security tiers.
//
// The Orchestrator implements the Maximum tier: it stretches the user's
// password through an independent salt layer, encrypts the mnemonic and
// private key into two separate authenticated envelopes, serializes them
// into a versioned JSON payload, and hides that payload inside a carrier
// image with the LSB codec. The result is a three-part artifact (PNG stego
// image, stego key, hex salt) whose parts are all required for recovery.
//
// Recovery through the Orchestrator deliberately collapses every inner
// failure into interfaces.ErrRetrieval so a caller cannot tell a wrong
// password from a corrupted stego image. Structural validation runs first
// and fails fast with interfaces.ErrMalformedResult before any crypto.
//
// The Manager is the state machine over the three tiers. Standard applies
// the legacy single-string envelope, Enhanced applies the authenticated
// cipher alone, and Maximum delegates to the Orchestrator, falling back to
// Enhanced automatically when combined protection cannot be created. The
// fallback is logged and recorded on the artifact, never silent.
//
// The Manager does not lock per wallet address; callers must serialize
// operations for the same address.
package security
