package security

import (
	"encoding/json"
	"fmt"

	"github.com/sealpact/walletcore/cryptoutils"
	"github.com/sealpact/walletcore/interfaces"
)

// enhancedCodec implements the Enhanced tier: the authenticated cipher
// applied to the serialized secret, no steganography. The original design
// left this tier as a placeholder delegating to Standard; here it is wired
// to the AEAD cipher directly.
type enhancedCodec struct {
	cipher *cryptoutils.Cipher
}

func (c enhancedCodec) protect(secret interfaces.WalletSecret, password string) (*interfaces.EncryptionEnvelope, error) {
	plaintext, err := json.Marshal(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize wallet secret: %w", err)
	}

	envelope, err := c.cipher.Encrypt(string(plaintext), password)
	if err != nil {
		return nil, err
	}
	return &envelope, nil
}

func (c enhancedCodec) recover(envelope *interfaces.EncryptionEnvelope, password string) (interfaces.WalletSecret, error) {
	plaintext, err := c.cipher.Decrypt(*envelope, password)
	if err != nil {
		return interfaces.WalletSecret{}, err
	}

	var secret interfaces.WalletSecret
	if err := json.Unmarshal([]byte(plaintext), &secret); err != nil {
		return interfaces.WalletSecret{}, fmt.Errorf("%w: unexpected plaintext shape", interfaces.ErrDecryption)
	}
	return secret, nil
}
