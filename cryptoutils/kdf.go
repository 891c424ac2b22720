package cryptoutils

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/sealpact/walletcore/interfaces"
)

const (
	// KeySize is the derived symmetric key size (AES-256).
	KeySize = 32

	// SaltSize is the random salt size used for every derivation.
	SaltSize = 32

	// EnvelopeIterations is the PBKDF2 iteration count for envelope keys.
	EnvelopeIterations = 310_000

	// EnhancedPasswordIterations is the iteration count for the independent
	// password-stretching layer used only by the Maximum tier.
	EnhancedPasswordIterations = 100_000

	// MinIterations is the lowest iteration count DeriveKey accepts.
	MinIterations = 100_000
)

// KeyDeriver turns a password and salt into a symmetric key. Implementations
// must be deterministic: the same password, salt and iteration count always
// yield the same key.
type KeyDeriver interface {
	DeriveKey(password, salt []byte, iterations int) ([]byte, error)
}

// PBKDF2Deriver is the default KeyDeriver, PBKDF2-HMAC-SHA256.
type PBKDF2Deriver struct{}

// DeriveKey derives a 32-byte key. It rejects empty passwords, undersized
// salts and iteration counts below MinIterations rather than silently
// downgrading security.
func (PBKDF2Deriver) DeriveKey(password, salt []byte, iterations int) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", interfaces.ErrDerivation)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", interfaces.ErrDerivation, SaltSize, len(salt))
	}
	if iterations < MinIterations {
		return nil, fmt.Errorf("%w: iteration count %d below minimum %d", interfaces.ErrDerivation, iterations, MinIterations)
	}
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New), nil
}

// RandomSalt generates a fresh SaltSize-byte salt.
func RandomSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
