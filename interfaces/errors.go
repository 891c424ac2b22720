package interfaces

import "errors"

var (
	// ErrDerivation is returned when key derivation cannot run at all,
	// typically because the derivation parameters are invalid or the
	// configured deriver is missing. Fatal; there is no fallback.
	ErrDerivation = errors.New("key derivation unavailable")

	// ErrDecryption is returned when AEAD tag verification fails: wrong
	// password or tampered data. No partial plaintext is ever returned.
	ErrDecryption = errors.New("decryption failed")

	// ErrCapacityExceeded is returned when a payload (including padding)
	// does not fit into the carrier image. The caller must supply a larger
	// carrier or shrink the payload; the operation is not retried.
	ErrCapacityExceeded = errors.New("payload exceeds carrier capacity")

	// ErrExtraction is returned when the steganographic decode recovers an
	// inconsistent byte stream: wrong stego key, wrong image, or an image
	// that went through lossy re-encoding.
	ErrExtraction = errors.New("steganographic extraction failed")

	// ErrMalformedResult is returned when structural validation of an
	// artifact fails before any cryptographic work is attempted.
	ErrMalformedResult = errors.New("malformed security result")

	// ErrRetrieval is the umbrella error for the combined recovery path. It
	// deliberately does not reveal which inner layer failed.
	ErrRetrieval = errors.New("retrieval failed: wrong password or corrupted data")

	// ErrTierMismatch is returned when an artifact is routed to a recovery
	// path for a different security tier. Detected before any crypto runs.
	ErrTierMismatch = errors.New("artifact tier mismatch")
)

var (
	// ErrArtifactNotFound is returned when no artifact exists for the
	// requested wallet address in the storage backend.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrBackendUnavailable is returned when a storage backend is not
	// accessible, due to network issues, authentication failures, or
	// service outages.
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrInvalidLocationURI is returned when a storage location URI is
	// malformed or names an unsupported scheme.
	ErrInvalidLocationURI = errors.New("invalid storage location URI")
)
