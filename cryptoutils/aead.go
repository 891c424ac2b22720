package cryptoutils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/sealpact/walletcore/interfaces"
)

const (
	// IVSize is the GCM nonce size.
	IVSize = 12

	// TagSize is the GCM authentication tag size.
	TagSize = 16
)

// Cipher is the authenticated cipher: AES-256-GCM under a PBKDF2-derived
// key. The zero value is not usable; construct with NewCipher.
type Cipher struct {
	deriver    KeyDeriver
	iterations int
}

// NewCipher creates a Cipher using the given key deriver and the production
// envelope iteration count.
func NewCipher(deriver KeyDeriver) *Cipher {
	return &Cipher{deriver: deriver, iterations: EnvelopeIterations}
}

// WithIterations returns a copy of the cipher using a different iteration
// count. Used by the Standard tier's legacy format.
func (c *Cipher) WithIterations(iterations int) *Cipher {
	return &Cipher{deriver: c.deriver, iterations: iterations}
}

// Encrypt encrypts plaintext under a password. A fresh salt and IV are
// generated per call and never reused.
func (c *Cipher) Encrypt(plaintext, password string) (interfaces.EncryptionEnvelope, error) {
	salt, err := RandomSalt()
	if err != nil {
		return interfaces.EncryptionEnvelope{}, err
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return interfaces.EncryptionEnvelope{}, fmt.Errorf("failed to generate IV: %w", err)
	}

	key, err := c.deriver.DeriveKey([]byte(password), salt, c.iterations)
	if err != nil {
		return interfaces.EncryptionEnvelope{}, err
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return interfaces.EncryptionEnvelope{}, err
	}

	sealed := aesGCM.Seal(nil, iv, []byte(plaintext), nil)

	// GCM appends the tag to the ciphertext; the envelope carries them as
	// separate fields.
	split := len(sealed) - TagSize
	return interfaces.EncryptionEnvelope{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed[:split]),
		IV:         base64.StdEncoding.EncodeToString(iv),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		AuthTag:    base64.StdEncoding.EncodeToString(sealed[split:]),
	}, nil
}

// Decrypt reverses Encrypt. Any tag mismatch, malformed field, or wrong
// password surfaces as interfaces.ErrDecryption with no partial output.
func (c *Cipher) Decrypt(envelope interfaces.EncryptionEnvelope, password string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: malformed ciphertext", interfaces.ErrDecryption)
	}
	iv, err := base64.StdEncoding.DecodeString(envelope.IV)
	if err != nil || len(iv) != IVSize {
		return "", fmt.Errorf("%w: malformed IV", interfaces.ErrDecryption)
	}
	salt, err := base64.StdEncoding.DecodeString(envelope.Salt)
	if err != nil || len(salt) != SaltSize {
		return "", fmt.Errorf("%w: malformed salt", interfaces.ErrDecryption)
	}
	tag, err := base64.StdEncoding.DecodeString(envelope.AuthTag)
	if err != nil || len(tag) != TagSize {
		return "", fmt.Errorf("%w: malformed auth tag", interfaces.ErrDecryption)
	}

	key, err := c.deriver.DeriveKey([]byte(password), salt, c.iterations)
	if err != nil {
		return "", err
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}

	plaintext, err := aesGCM.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", interfaces.ErrDecryption
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
