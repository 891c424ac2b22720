package interfaces

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// WalletAddress identifies a wallet. Addresses are hex strings, usually but
// not necessarily 0x-prefixed; artifacts are keyed by address.
type WalletAddress string

var addressPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]+$`)

// NewWalletAddress validates and normalizes a wallet address string.
func NewWalletAddress(s string) (WalletAddress, error) {
	if s == "" {
		return "", errors.New("wallet address must not be empty")
	}
	if !addressPattern.MatchString(s) {
		return "", fmt.Errorf("invalid wallet address %q: not a hex string", s)
	}
	return WalletAddress(strings.ToLower(s)), nil
}

// String returns the address as a plain string.
func (a WalletAddress) String() string {
	return string(a)
}

// WalletSecret is the protected payload: the key material produced at wallet
// generation time. It is immutable once created, consumed only by the
// security core, and never persisted in plaintext.
type WalletSecret struct {
	MnemonicPhrase string `json:"mnemonicPhrase"`
	PrivateKeyHex  string `json:"privateKeyHex"`
	WalletAddress  string `json:"walletAddress"`
	ExternalID     string `json:"externalId"`
}

// Validate checks that all required fields are present.
func (s WalletSecret) Validate() error {
	if s.MnemonicPhrase == "" {
		return errors.New("wallet secret missing mnemonic phrase")
	}
	if s.PrivateKeyHex == "" {
		return errors.New("wallet secret missing private key")
	}
	if s.WalletAddress == "" {
		return errors.New("wallet secret missing wallet address")
	}
	if s.ExternalID == "" {
		return errors.New("wallet secret missing external id")
	}
	return nil
}

// EncryptionEnvelope is the output of the authenticated cipher. All fields
// are base64-encoded for transport and storage. The auth tag must verify
// against the ciphertext under the derived key or decryption fails closed.
type EncryptionEnvelope struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	Salt       string `json:"salt"`
	AuthTag    string `json:"authTag"`
}

// Validate checks that all envelope fields are present. It does not verify
// the authentication tag; that happens during decryption.
func (e EncryptionEnvelope) Validate() error {
	if e.Ciphertext == "" || e.IV == "" || e.Salt == "" || e.AuthTag == "" {
		return errors.New("encryption envelope missing required fields")
	}
	return nil
}

// CombinedSecurityVersion tags artifacts produced by the combined
// (Maximum tier) pipeline.
const CombinedSecurityVersion = "maximum"

// CombinedPayloadVersion tags the inner JSON payload hidden inside the
// carrier image.
const CombinedPayloadVersion = "v3-combined"

// CombinedSecurityResult is the at-rest unit for Maximum-tier wallets: a PNG
// stego image, the stego key acting as a second factor, and the hex-encoded
// salt for the outer password-stretching layer. Losing any one of the three
// makes recovery impossible. No raw key material exists outside this
// structure and the user's memory.
type CombinedSecurityResult struct {
	StegoImage    []byte `json:"stegoImage"`
	StegoKey      string `json:"stegoKey"`
	WalletAddress string `json:"walletAddress"`
	ExternalID    string `json:"externalId"`
	Version       string `json:"version"`
	Salt          string `json:"salt"`
}

var (
	stegoKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	hexSaltPattern  = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

// Validate performs structural validation of a combined result before any
// cryptographic work is attempted, so a malformed result fails fast instead
// of surfacing as a confusing decryption failure.
func (r CombinedSecurityResult) Validate() error {
	if len(r.StegoImage) == 0 {
		return fmt.Errorf("%w: missing stego image", ErrMalformedResult)
	}
	if r.WalletAddress == "" {
		return fmt.Errorf("%w: missing wallet address", ErrMalformedResult)
	}
	if r.ExternalID == "" {
		return fmt.Errorf("%w: missing external id", ErrMalformedResult)
	}
	if r.Version != CombinedSecurityVersion {
		return fmt.Errorf("%w: unexpected version %q", ErrMalformedResult, r.Version)
	}
	if !stegoKeyPattern.MatchString(r.StegoKey) {
		return fmt.Errorf("%w: stego key is not alphanumeric", ErrMalformedResult)
	}
	if !hexSaltPattern.MatchString(r.Salt) {
		return fmt.Errorf("%w: salt is not a hex string", ErrMalformedResult)
	}
	return nil
}
