// Package walletgen creates fresh wallet material: a BIP39 mnemonic, the
// secp256k1 private key derived from it, and the matching address. The
// output feeds directly into the security manager as the secret to protect.
package walletgen

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/tyler-smith/go-bip39"

	"github.com/sealpact/walletcore/interfaces"
)

// mnemonicEntropyBits yields a 24-word phrase.
const mnemonicEntropyBits = 256

// Generate creates a new wallet secret: 24-word mnemonic, private key
// derived from the mnemonic seed, address derived from the key, and a fresh
// external identifier.
func Generate() (*interfaces.WalletSecret, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return FromMnemonic(mnemonic)
}

// FromMnemonic rebuilds the wallet secret deterministically from an existing
// mnemonic phrase. The external identifier is freshly assigned.
func FromMnemonic(mnemonic string) (*interfaces.WalletSecret, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic phrase")
	}

	// Hashing the BIP39 seed gives a uniformly distributed 32-byte scalar;
	// ToECDSA rejects the negligible out-of-range cases.
	seed := bip39.NewSeed(mnemonic, "")
	key, err := crypto.ToECDSA(crypto.Keccak256(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to derive private key: %w", err)
	}

	address, err := interfaces.NewWalletAddress(crypto.PubkeyToAddress(key.PublicKey).Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to derive address: %w", err)
	}

	return &interfaces.WalletSecret{
		MnemonicPhrase: mnemonic,
		PrivateKeyHex:  fmt.Sprintf("0x%x", crypto.FromECDSA(key)),
		WalletAddress:  address.String(),
		ExternalID:     uuid.NewString(),
	}, nil
}

// AddressQR renders the wallet address as a PNG QR code, suitable for
// displaying a receive address alongside the protected secret.
func AddressQR(address interfaces.WalletAddress, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(address.String(), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render address QR code: %w", err)
	}
	return png, nil
}
