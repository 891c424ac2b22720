package interfaces

import "context"

// ArtifactStorage persists secured artifacts keyed by wallet address. The
// crypto core never touches storage itself; the security manager receives an
// implementation at construction time and the lifecycle is owned by the
// application.
//
// The Maximum tier's three-part artifact (stego image, stego key, salt) is
// serialized into a single document so it is stored and replaced as one
// unit; there is no window in which only part of an artifact is durable.
type ArtifactStorage interface {
	// Store persists a new artifact. Implementations may overwrite an
	// existing artifact for the same address.
	Store(ctx context.Context, artifact *SecuredArtifact) error

	// Fetch retrieves the artifact for a wallet address, or
	// ErrArtifactNotFound.
	Fetch(ctx context.Context, address WalletAddress) (*SecuredArtifact, error)

	// Replace atomically swaps the stored artifact for an address with a
	// new one. The previous artifact must remain retrievable until the new
	// one is durably stored.
	Replace(ctx context.Context, artifact *SecuredArtifact) error

	// Delete removes the artifact for an address. Deleting a missing
	// artifact is not an error.
	Delete(ctx context.Context, address WalletAddress) error

	// Available reports whether the backend is currently reachable.
	Available(ctx context.Context) bool

	// Name identifies the backend for logging.
	Name() string

	// LocationURI returns the URI this backend was created from.
	LocationURI() string
}
