package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sealpact/walletcore/cryptoutils"
	"github.com/sealpact/walletcore/interfaces"
)

// LegacyIterations is the weaker KDF iteration count of the Standard tier,
// kept for compatibility with artifacts created before the tier system.
const LegacyIterations = 100_000

// standardCodec implements the Standard tier: password-based AES-256-GCM
// with all binary parts combined into one opaque base64 string,
// base64(salt || iv || ciphertext || tag).
type standardCodec struct {
	deriver cryptoutils.KeyDeriver
}

func (c standardCodec) protect(secret interfaces.WalletSecret, password string) (*interfaces.StandardArtifact, error) {
	plaintext, err := json.Marshal(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize wallet secret: %w", err)
	}

	salt, err := cryptoutils.RandomSalt()
	if err != nil {
		return nil, err
	}
	iv := make([]byte, cryptoutils.IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	key, err := c.deriver.DeriveKey([]byte(password), salt, LegacyIterations)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	sealed := aesGCM.Seal(nil, iv, plaintext, nil)

	combined := make([]byte, 0, len(salt)+len(iv)+len(sealed))
	combined = append(combined, salt...)
	combined = append(combined, iv...)
	combined = append(combined, sealed...)

	return &interfaces.StandardArtifact{
		Envelope: base64.StdEncoding.EncodeToString(combined),
	}, nil
}

func (c standardCodec) recover(artifact *interfaces.StandardArtifact, password string) (interfaces.WalletSecret, error) {
	combined, err := base64.StdEncoding.DecodeString(artifact.Envelope)
	if err != nil {
		return interfaces.WalletSecret{}, fmt.Errorf("%w: malformed envelope", interfaces.ErrDecryption)
	}
	if len(combined) < cryptoutils.SaltSize+cryptoutils.IVSize+cryptoutils.TagSize {
		return interfaces.WalletSecret{}, fmt.Errorf("%w: envelope too short", interfaces.ErrDecryption)
	}

	salt := combined[:cryptoutils.SaltSize]
	iv := combined[cryptoutils.SaltSize : cryptoutils.SaltSize+cryptoutils.IVSize]
	sealed := combined[cryptoutils.SaltSize+cryptoutils.IVSize:]

	key, err := c.deriver.DeriveKey([]byte(password), salt, LegacyIterations)
	if err != nil {
		return interfaces.WalletSecret{}, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return interfaces.WalletSecret{}, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return interfaces.WalletSecret{}, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := aesGCM.Open(nil, iv, sealed, nil)
	if err != nil {
		return interfaces.WalletSecret{}, interfaces.ErrDecryption
	}

	var secret interfaces.WalletSecret
	if err := json.Unmarshal(plaintext, &secret); err != nil {
		return interfaces.WalletSecret{}, fmt.Errorf("%w: unexpected plaintext shape", interfaces.ErrDecryption)
	}
	return secret, nil
}
