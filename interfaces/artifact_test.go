package interfaces

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSecurityLevel(t *testing.T) {
	for _, level := range []SecurityLevel{LevelStandard, LevelEnhanced, LevelMaximum} {
		parsed, err := ParseSecurityLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	_, err := ParseSecurityLevel("paranoid")
	assert.Error(t, err)
}

func TestSecurityLevel_JSONRoundTrip(t *testing.T) {
	encoded, err := json.Marshal(LevelEnhanced)
	require.NoError(t, err)
	assert.Equal(t, `"enhanced"`, string(encoded))

	var decoded SecurityLevel
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, LevelEnhanced, decoded)
}

func TestNewWalletAddress(t *testing.T) {
	addr, err := NewWalletAddress("0xDEADbeef")
	require.NoError(t, err)
	assert.Equal(t, WalletAddress("0xdeadbeef"), addr)

	for _, bad := range []string{"", "not hex", "0x12g4"} {
		_, err := NewWalletAddress(bad)
		assert.Error(t, err, "address %q", bad)
	}
}

func TestSecuredArtifact_Validate(t *testing.T) {
	valid := func() *SecuredArtifact {
		return &SecuredArtifact{
			Address:   "0xdeadbeef",
			Level:     LevelStandard,
			CreatedAt: time.Now(),
			Standard:  &StandardArtifact{Envelope: "opaque"},
		}
	}

	t.Run("valid standard artifact", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing address", func(t *testing.T) {
		a := valid()
		a.Address = ""
		assert.ErrorIs(t, a.Validate(), ErrMalformedResult)
	})

	t.Run("no payload", func(t *testing.T) {
		a := valid()
		a.Standard = nil
		assert.ErrorIs(t, a.Validate(), ErrMalformedResult)
	})

	t.Run("two payloads", func(t *testing.T) {
		a := valid()
		a.Enhanced = &EncryptionEnvelope{Ciphertext: "c", IV: "i", Salt: "s", AuthTag: "t"}
		assert.ErrorIs(t, a.Validate(), ErrMalformedResult)
	})

	t.Run("level does not match payload", func(t *testing.T) {
		a := valid()
		a.Level = LevelEnhanced
		assert.ErrorIs(t, a.Validate(), ErrTierMismatch)
	})

	t.Run("valid enhanced artifact", func(t *testing.T) {
		a := valid()
		a.Standard = nil
		a.Level = LevelEnhanced
		a.Enhanced = &EncryptionEnvelope{Ciphertext: "c", IV: "i", Salt: "s", AuthTag: "t"}
		assert.NoError(t, a.Validate())
	})
}

func TestCombinedSecurityResult_Validate(t *testing.T) {
	valid := func() CombinedSecurityResult {
		return CombinedSecurityResult{
			StegoImage:    []byte{1, 2, 3},
			StegoKey:      "Abc123",
			WalletAddress: "0xdeadbeef",
			ExternalID:    "EXT-1",
			Version:       CombinedSecurityVersion,
			Salt:          "00ff00ff",
		}
	}

	assert.NoError(t, valid().Validate())

	t.Run("rejects wrong version", func(t *testing.T) {
		r := valid()
		r.Version = "v0"
		assert.ErrorIs(t, r.Validate(), ErrMalformedResult)
	})

	t.Run("rejects non-alphanumeric stego key", func(t *testing.T) {
		r := valid()
		r.StegoKey = "with spaces!"
		assert.ErrorIs(t, r.Validate(), ErrMalformedResult)
	})

	t.Run("rejects non-hex salt", func(t *testing.T) {
		r := valid()
		r.Salt = "zz"
		assert.ErrorIs(t, r.Validate(), ErrMalformedResult)
	})

	t.Run("rejects empty image", func(t *testing.T) {
		r := valid()
		r.StegoImage = nil
		assert.ErrorIs(t, r.Validate(), ErrMalformedResult)
	})
}
