package security

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealpact/walletcore/cryptoutils"
	"github.com/sealpact/walletcore/interfaces"
)

// fakeDeriver is a fast deterministic KeyDeriver for tests; the real PBKDF2
// deriver at production iteration counts would dominate the test runtime.
type fakeDeriver struct{}

func (fakeDeriver) DeriveKey(password, salt []byte, iterations int) ([]byte, error) {
	h := sha256.New()
	h.Write(password)
	h.Write(salt)
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(iterations))
	h.Write(n[:])
	return h.Sum(nil), nil
}

func testSecret() interfaces.WalletSecret {
	return interfaces.WalletSecret{
		MnemonicPhrase: strings.Repeat("abandon ", 23) + "art",
		PrivateKeyHex:  "0xabc123def456abc123def456abc123def456abc123def456abc123def456abcd",
		WalletAddress:  "0xdeadbeef",
		ExternalID:     "ABC123",
	}
}

func TestSecureRetrieveRoundTrip(t *testing.T) {
	o := NewOrchestrator(fakeDeriver{}, nil, nil)
	secret := testSecret()

	result, err := o.Secure(secret, "correct horse battery staple", nil)
	require.NoError(t, err)
	require.NoError(t, result.Validate())
	assert.Equal(t, interfaces.CombinedSecurityVersion, result.Version)
	assert.Equal(t, secret.WalletAddress, result.WalletAddress)
	assert.Equal(t, secret.ExternalID, result.ExternalID)
	assert.GreaterOrEqual(t, len(result.StegoKey), 32)

	recovered, err := o.Retrieve(result, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, secret, recovered)
}

func TestRetrieveWrongPassword(t *testing.T) {
	o := NewOrchestrator(fakeDeriver{}, nil, nil)

	result, err := o.Secure(testSecret(), "correct horse battery staple", nil)
	require.NoError(t, err)

	_, err = o.Retrieve(result, "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrRetrieval)
}

func TestRetrieveDoesNotDistinguishFailures(t *testing.T) {
	o := NewOrchestrator(fakeDeriver{}, nil, nil)

	result, err := o.Secure(testSecret(), "pw", nil)
	require.NoError(t, err)

	// Wrong password and wrong stego key must be indistinguishable.
	_, wrongPassword := o.Retrieve(result, "not the password")
	require.ErrorIs(t, wrongPassword, interfaces.ErrRetrieval)

	corrupted := *result
	corrupted.StegoKey = "DifferentKey01234567890123456789"
	_, wrongKey := o.Retrieve(&corrupted, "pw")
	require.ErrorIs(t, wrongKey, interfaces.ErrRetrieval)

	assert.Equal(t, wrongPassword.Error(), wrongKey.Error())
}

func TestRetrieveCorruptedImage(t *testing.T) {
	o := NewOrchestrator(fakeDeriver{}, nil, nil)

	result, err := o.Secure(testSecret(), "pw", nil)
	require.NoError(t, err)

	corrupted := *result
	corrupted.StegoImage = append([]byte(nil), result.StegoImage...)
	corrupted.StegoImage[len(corrupted.StegoImage)/2] ^= 0xFF

	_, err = o.Retrieve(&corrupted, "pw")
	require.Error(t, err)
	// Either the PNG no longer parses or the embedded stream is gone;
	// both must surface as the umbrella error.
	assert.ErrorIs(t, err, interfaces.ErrRetrieval)
}

func TestRetrieveMalformedResult(t *testing.T) {
	o := NewOrchestrator(fakeDeriver{}, nil, nil)

	valid, err := o.Secure(testSecret(), "pw", nil)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		mutate func(r *interfaces.CombinedSecurityResult)
	}{
		{name: "missing image", mutate: func(r *interfaces.CombinedSecurityResult) { r.StegoImage = nil }},
		{name: "missing address", mutate: func(r *interfaces.CombinedSecurityResult) { r.WalletAddress = "" }},
		{name: "missing external id", mutate: func(r *interfaces.CombinedSecurityResult) { r.ExternalID = "" }},
		{name: "wrong version", mutate: func(r *interfaces.CombinedSecurityResult) { r.Version = "v2" }},
		{name: "non-alphanumeric stego key", mutate: func(r *interfaces.CombinedSecurityResult) { r.StegoKey = "bad key!" }},
		{name: "non-hex salt", mutate: func(r *interfaces.CombinedSecurityResult) { r.Salt = "zzzz" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mutated := *valid
			tc.mutate(&mutated)
			_, err := o.Retrieve(&mutated, "pw")
			require.Error(t, err)
			assert.ErrorIs(t, err, interfaces.ErrMalformedResult)
		})
	}
}

func TestSecureFreshArtifactsPerCall(t *testing.T) {
	o := NewOrchestrator(fakeDeriver{}, nil, nil)
	secret := testSecret()

	first, err := o.Secure(secret, "pw", nil)
	require.NoError(t, err)
	second, err := o.Secure(secret, "pw", nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.StegoKey, second.StegoKey)
	assert.NotEqual(t, first.Salt, second.Salt)
	assert.NotEqual(t, first.StegoImage, second.StegoImage)
}

func TestSecureCapacityExceededWithTinyCarrier(t *testing.T) {
	o := NewOrchestrator(fakeDeriver{}, nil, nil)

	tiny := newTestImage(8, 8)
	_, err := o.Secure(testSecret(), "pw", tiny)
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrCapacityExceeded)
}

func TestEndToEndWithProductionDeriver(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping production-strength derivation in short mode")
	}

	o := NewOrchestrator(cryptoutils.PBKDF2Deriver{}, nil, nil)
	secret := testSecret()

	result, err := o.Secure(secret, "correct horse battery staple", nil)
	require.NoError(t, err)

	recovered, err := o.Retrieve(result, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, secret, recovered)

	_, err = o.Retrieve(result, "wrong")
	assert.ErrorIs(t, err, interfaces.ErrRetrieval)
}
