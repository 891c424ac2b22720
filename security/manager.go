package security

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"go.uber.org/atomic"

	"github.com/sealpact/walletcore/carrier"
	"github.com/sealpact/walletcore/cryptoutils"
	"github.com/sealpact/walletcore/interfaces"
)

// ManagerConfig wires the Manager's collaborators. Storage is optional:
// without it the Manager only builds and recovers artifacts, and the
// address-keyed operations (Recover by address, Upgrade) are unavailable.
type ManagerConfig struct {
	Deriver  cryptoutils.KeyDeriver
	Carriers *carrier.Provider
	Storage  interfaces.ArtifactStorage
	Log      *slog.Logger
}

// ProtectOptions carries per-operation options.
type ProtectOptions struct {
	// Carrier overrides the auto-generated carrier image for the Maximum
	// tier. Ignored by the other tiers.
	Carrier image.Image
}

// Manager is the security-level state machine. It selects among the three
// tiers, persists artifacts through the injected storage, and implements
// the Maximum→Enhanced creation fallback.
//
// The Manager holds no per-address locks; callers must serialize operations
// for the same wallet address.
type Manager struct {
	orchestrator *Orchestrator
	standard     standardCodec
	enhanced     enhancedCodec
	storage      interfaces.ArtifactStorage
	log          *slog.Logger

	fallbacks atomic.Int64
}

// NewManager creates a Manager from the config. A nil deriver gets the
// default PBKDF2 implementation.
func NewManager(cfg *ManagerConfig) *Manager {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	deriver := cfg.Deriver
	if deriver == nil {
		deriver = cryptoutils.PBKDF2Deriver{}
	}

	return &Manager{
		orchestrator: NewOrchestrator(deriver, cfg.Carriers, log),
		standard:     standardCodec{deriver: deriver},
		enhanced:     enhancedCodec{cipher: cryptoutils.NewCipher(deriver)},
		storage:      cfg.Storage,
		log:          log,
	}
}

// Orchestrator exposes the combined-tier pipeline for callers that manage
// artifacts themselves.
func (m *Manager) Orchestrator() *Orchestrator {
	return m.orchestrator
}

// FallbackCount reports how many Maximum→Enhanced downgrades this Manager
// performed.
func (m *Manager) FallbackCount() int64 {
	return m.fallbacks.Load()
}

// Protect secures a wallet secret at the requested level and, when storage
// is configured, persists the resulting artifact. If Maximum-tier creation
// fails the Manager falls back to Enhanced: the downgrade is logged and
// recorded on the artifact's FallbackReason, never swallowed.
func (m *Manager) Protect(ctx context.Context, secret interfaces.WalletSecret, password string, level interfaces.SecurityLevel, opts *ProtectOptions) (*interfaces.SecuredArtifact, error) {
	artifact, err := m.buildArtifact(secret, password, level, opts)
	if err != nil {
		return nil, err
	}

	if m.storage != nil {
		if err := m.storage.Store(ctx, artifact); err != nil {
			return nil, fmt.Errorf("failed to store artifact: %w", err)
		}
	}
	return artifact, nil
}

// Recover fetches the artifact for an address and recovers the secret.
func (m *Manager) Recover(ctx context.Context, address interfaces.WalletAddress, password string) (interfaces.WalletSecret, error) {
	if m.storage == nil {
		return interfaces.WalletSecret{}, errors.New("manager has no storage configured")
	}

	artifact, err := m.storage.Fetch(ctx, address)
	if err != nil {
		return interfaces.WalletSecret{}, err
	}
	return m.RecoverArtifact(artifact, password)
}

// RecoverArtifact recovers the secret from an artifact. The tier tag is
// validated before any cryptographic work, so an artifact can never be fed
// into another tier's recovery path.
func (m *Manager) RecoverArtifact(artifact *interfaces.SecuredArtifact, password string) (interfaces.WalletSecret, error) {
	if artifact == nil {
		return interfaces.WalletSecret{}, fmt.Errorf("%w: nil artifact", interfaces.ErrMalformedResult)
	}
	if err := artifact.Validate(); err != nil {
		return interfaces.WalletSecret{}, err
	}

	switch artifact.Level {
	case interfaces.LevelStandard:
		return m.standard.recover(artifact.Standard, password)
	case interfaces.LevelEnhanced:
		return m.enhanced.recover(artifact.Enhanced, password)
	default:
		return m.orchestrator.Retrieve(artifact.Maximum, password)
	}
}

// Upgrade re-secures the wallet stored under address at a new level. The
// old artifact is only replaced after the new one is fully created; storage
// Replace is the atomic step, so no secret is ever dropped without a
// verified replacement. Downgrade-by-recreation is allowed.
func (m *Manager) Upgrade(ctx context.Context, address interfaces.WalletAddress, password string, newLevel interfaces.SecurityLevel, opts *ProtectOptions) (*interfaces.SecuredArtifact, error) {
	if m.storage == nil {
		return nil, errors.New("manager has no storage configured")
	}

	current, err := m.storage.Fetch(ctx, address)
	if err != nil {
		return nil, err
	}

	secret, err := m.RecoverArtifact(current, password)
	if err != nil {
		return nil, err
	}

	artifact, err := m.buildArtifact(secret, password, newLevel, opts)
	if err != nil {
		return nil, err
	}

	if err := m.storage.Replace(ctx, artifact); err != nil {
		return nil, fmt.Errorf("failed to replace artifact: %w", err)
	}

	m.log.Info("wallet security level changed",
		slog.String("address", address.String()),
		slog.String("from", current.Level.String()),
		slog.String("to", artifact.Level.String()))
	return artifact, nil
}

func (m *Manager) buildArtifact(secret interfaces.WalletSecret, password string, level interfaces.SecurityLevel, opts *ProtectOptions) (*interfaces.SecuredArtifact, error) {
	if err := secret.Validate(); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, errors.New("password must not be empty")
	}

	address, err := interfaces.NewWalletAddress(secret.WalletAddress)
	if err != nil {
		return nil, err
	}

	artifact := &interfaces.SecuredArtifact{
		Address:    address,
		ExternalID: secret.ExternalID,
		Level:      level,
		CreatedAt:  time.Now().UTC(),
	}

	switch level {
	case interfaces.LevelStandard:
		artifact.Standard, err = m.standard.protect(secret, password)
		if err != nil {
			return nil, err
		}

	case interfaces.LevelEnhanced:
		artifact.Enhanced, err = m.enhanced.protect(secret, password)
		if err != nil {
			return nil, err
		}

	case interfaces.LevelMaximum:
		var carrierImage image.Image
		if opts != nil {
			carrierImage = opts.Carrier
		}
		result, maxErr := m.orchestrator.Secure(secret, password, carrierImage)
		if maxErr == nil {
			artifact.Maximum = result
			break
		}

		// Availability over maximal security: combined protection could
		// not be created, so degrade to the Enhanced tier. The caller sees
		// the downgrade on the artifact; it is never silent.
		m.fallbacks.Inc()
		m.log.Warn("maximum tier creation failed, falling back to enhanced",
			slog.String("address", secret.WalletAddress),
			slog.String("err", maxErr.Error()))

		artifact.Level = interfaces.LevelEnhanced
		artifact.FallbackReason = maxErr.Error()
		artifact.Enhanced, err = m.enhanced.protect(secret, password)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown security level %d", int(level))
	}

	return artifact, nil
}
