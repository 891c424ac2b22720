package walletgen

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/sealpact/walletcore/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	secret, err := Generate()
	require.NoError(t, err)
	require.NoError(t, secret.Validate())

	assert.Len(t, strings.Fields(secret.MnemonicPhrase), 24)
	assert.True(t, strings.HasPrefix(secret.PrivateKeyHex, "0x"))
	assert.Len(t, secret.PrivateKeyHex, 2+64)
	assert.True(t, strings.HasPrefix(secret.WalletAddress, "0x"))
	assert.Len(t, secret.WalletAddress, 2+40)
	assert.NotEmpty(t, secret.ExternalID)

	// Address must survive normalization.
	_, err = interfaces.NewWalletAddress(secret.WalletAddress)
	assert.NoError(t, err)
}

func TestGenerate_Unique(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	assert.NotEqual(t, a.MnemonicPhrase, b.MnemonicPhrase)
	assert.NotEqual(t, a.PrivateKeyHex, b.PrivateKeyHex)
	assert.NotEqual(t, a.WalletAddress, b.WalletAddress)
	assert.NotEqual(t, a.ExternalID, b.ExternalID)
}

func TestFromMnemonic_Deterministic(t *testing.T) {
	secret, err := Generate()
	require.NoError(t, err)

	rebuilt, err := FromMnemonic(secret.MnemonicPhrase)
	require.NoError(t, err)

	assert.Equal(t, secret.PrivateKeyHex, rebuilt.PrivateKeyHex)
	assert.Equal(t, secret.WalletAddress, rebuilt.WalletAddress)
	// External identifiers are assigned per call, not derived.
	assert.NotEqual(t, secret.ExternalID, rebuilt.ExternalID)
}

func TestFromMnemonic_Invalid(t *testing.T) {
	_, err := FromMnemonic("definitely not twenty four valid words")
	assert.Error(t, err)

	_, err = FromMnemonic("")
	assert.Error(t, err)
}

func TestAddressQR(t *testing.T) {
	secret, err := Generate()
	require.NoError(t, err)

	addr, err := interfaces.NewWalletAddress(secret.WalletAddress)
	require.NoError(t, err)

	data, err := AddressQR(addr, 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}
