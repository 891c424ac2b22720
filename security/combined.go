package security

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/sealpact/walletcore/carrier"
	"github.com/sealpact/walletcore/cryptoutils"
	"github.com/sealpact/walletcore/interfaces"
	"github.com/sealpact/walletcore/stego"
)

// combinedPayload is the JSON document hidden inside the carrier image.
type combinedPayload struct {
	EncryptedMnemonic   interfaces.EncryptionEnvelope `json:"encryptedMnemonic"`
	EncryptedPrivateKey interfaces.EncryptionEnvelope `json:"encryptedPrivateKey"`
	WalletAddress       string                        `json:"walletAddress"`
	ExternalID          string                        `json:"externalId"`
	Version             string                        `json:"version"`
	Timestamp           int64                         `json:"timestamp"`
}

// Orchestrator implements the Maximum security tier: authenticated
// encryption layered under LSB steganography, with an independent
// password-stretching salt.
type Orchestrator struct {
	cipher   *cryptoutils.Cipher
	deriver  cryptoutils.KeyDeriver
	carriers *carrier.Provider
	log      *slog.Logger
}

// NewOrchestrator wires the orchestrator's collaborators. A nil carrier
// provider gets a default one; the logger is required by convention but
// falls back to slog.Default.
func NewOrchestrator(deriver cryptoutils.KeyDeriver, carriers *carrier.Provider, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	if carriers == nil {
		carriers = carrier.NewProvider(log)
	}
	return &Orchestrator{
		cipher:   cryptoutils.NewCipher(deriver),
		deriver:  deriver,
		carriers: carriers,
		log:      log,
	}
}

// Secure protects a wallet secret at the Maximum tier. If carrierImage is
// nil a deterministic carrier is generated from the wallet identity so the
// same wallet always gets a recognizable image.
func (o *Orchestrator) Secure(secret interfaces.WalletSecret, password string, carrierImage image.Image) (*interfaces.CombinedSecurityResult, error) {
	if err := secret.Validate(); err != nil {
		return nil, err
	}

	salt, err := cryptoutils.RandomSalt()
	if err != nil {
		return nil, err
	}

	// The enhanced password is a stretching layer independent from the
	// envelopes' own internal salts: recovering an envelope salt alone is
	// not enough without this outer salt.
	enhancedPassword, err := o.enhancedPassword(password, salt)
	if err != nil {
		return nil, err
	}

	encryptedMnemonic, err := o.cipher.Encrypt(secret.MnemonicPhrase, enhancedPassword)
	if err != nil {
		return nil, err
	}
	encryptedPrivateKey, err := o.cipher.Encrypt(secret.PrivateKeyHex, enhancedPassword)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(combinedPayload{
		EncryptedMnemonic:   encryptedMnemonic,
		EncryptedPrivateKey: encryptedPrivateKey,
		WalletAddress:       secret.WalletAddress,
		ExternalID:          secret.ExternalID,
		Version:             interfaces.CombinedPayloadVersion,
		Timestamp:           time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize combined payload: %w", err)
	}

	if carrierImage == nil {
		seed := fmt.Sprintf("wallet-%s-%s", secret.WalletAddress, secret.ExternalID)
		carrierImage = o.carriers.Provide(seed)
	}

	stegoImage, stegoKey, err := stego.Hide(string(payload), carrierImage, "")
	if err != nil {
		return nil, err
	}

	pngBytes, err := stego.EncodePNG(stegoImage)
	if err != nil {
		return nil, err
	}

	return &interfaces.CombinedSecurityResult{
		StegoImage:    pngBytes,
		StegoKey:      stegoKey,
		WalletAddress: secret.WalletAddress,
		ExternalID:    secret.ExternalID,
		Version:       interfaces.CombinedSecurityVersion,
		Salt:          hex.EncodeToString(salt),
	}, nil
}

// Retrieve reverses Secure. Structural problems fail fast with
// interfaces.ErrMalformedResult; every other failure, from extraction
// through decryption, surfaces as interfaces.ErrRetrieval without revealing
// which layer failed.
func (o *Orchestrator) Retrieve(result *interfaces.CombinedSecurityResult, password string) (interfaces.WalletSecret, error) {
	if result == nil {
		return interfaces.WalletSecret{}, fmt.Errorf("%w: nil result", interfaces.ErrMalformedResult)
	}
	if err := result.Validate(); err != nil {
		return interfaces.WalletSecret{}, err
	}

	img, err := stego.DecodePNG(result.StegoImage)
	if err != nil {
		return interfaces.WalletSecret{}, o.retrievalFailure("stego image decode", err)
	}

	payloadJSON, err := stego.Extract(img, result.StegoKey)
	if err != nil {
		return interfaces.WalletSecret{}, o.retrievalFailure("extraction", err)
	}

	var payload combinedPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return interfaces.WalletSecret{}, o.retrievalFailure("payload parse", err)
	}
	if payload.Version != interfaces.CombinedPayloadVersion {
		return interfaces.WalletSecret{}, o.retrievalFailure("payload version",
			fmt.Errorf("unexpected version %q", payload.Version))
	}

	salt, err := hex.DecodeString(result.Salt)
	if err != nil {
		return interfaces.WalletSecret{}, o.retrievalFailure("salt decode", err)
	}

	enhancedPassword, err := o.enhancedPassword(password, salt)
	if err != nil {
		return interfaces.WalletSecret{}, o.retrievalFailure("key derivation", err)
	}

	mnemonic, err := o.cipher.Decrypt(payload.EncryptedMnemonic, enhancedPassword)
	if err != nil {
		return interfaces.WalletSecret{}, o.retrievalFailure("mnemonic decryption", err)
	}
	privateKey, err := o.cipher.Decrypt(payload.EncryptedPrivateKey, enhancedPassword)
	if err != nil {
		return interfaces.WalletSecret{}, o.retrievalFailure("private key decryption", err)
	}

	return interfaces.WalletSecret{
		MnemonicPhrase: mnemonic,
		PrivateKeyHex:  privateKey,
		WalletAddress:  payload.WalletAddress,
		ExternalID:     payload.ExternalID,
	}, nil
}

// enhancedPassword derives the outer password-stretching layer.
func (o *Orchestrator) enhancedPassword(password string, salt []byte) (string, error) {
	key, err := o.deriver.DeriveKey([]byte(password), salt, cryptoutils.EnhancedPasswordIterations)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// retrievalFailure logs the failing stage for operators but returns only
// the generic umbrella error to the caller.
func (o *Orchestrator) retrievalFailure(stage string, err error) error {
	o.log.Debug("combined retrieval failed", slog.String("stage", stage), slog.String("err", err.Error()))
	return interfaces.ErrRetrieval
}
