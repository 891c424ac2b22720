package carrier

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvideDeterministic(t *testing.T) {
	p := NewProvider(nil)

	first := p.Provide("wallet-0xdeadbeef-ABC123")
	second := p.Provide("wallet-0xdeadbeef-ABC123")
	require.NotNil(t, first)
	assert.Equal(t, first.Pix, second.Pix, "same seed must produce an identical carrier")

	other := p.Provide("wallet-0xdeadbeef-XYZ789")
	assert.NotEqual(t, first.Pix, other.Pix, "different seeds must produce different carriers")
}

func TestProvideRandomSeeds(t *testing.T) {
	p := NewProvider(nil)

	first := p.Provide("")
	second := p.Provide("")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotEqual(t, first.Pix, second.Pix, "empty seeds must produce unique carriers")
}

func TestProvideSize(t *testing.T) {
	p := NewProvider(nil).WithSize(100)

	img := p.Provide("seed")
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestProvideFallsBackOnTinySize(t *testing.T) {
	// Below the identicon grid minimum the provider must degrade to the
	// gradient renderer, not fail.
	p := NewProvider(nil).WithSize(3)

	img := p.Provide("seed")
	require.NotNil(t, img)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func TestGradientDeterministic(t *testing.T) {
	digest := crypto.Keccak256([]byte("seed"))

	first := renderGradient(digest, 64)
	second := renderGradient(digest, 64)
	assert.Equal(t, first.Pix, second.Pix)

	other := renderGradient(crypto.Keccak256([]byte("other")), 64)
	assert.NotEqual(t, first.Pix, other.Pix)
}

func TestProvideQR(t *testing.T) {
	p := NewProvider(nil)

	img, err := p.ProvideQR("wallet-0xdeadbeef-ABC123")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, img.Bounds().Dx(), img.Bounds().Dy())
}
