package interfaces

import (
	"fmt"
	"time"
)

// SecurityLevel selects which protection mechanisms are applied to a
// wallet's secret material.
type SecurityLevel int

const (
	// LevelStandard applies password-based symmetric encryption only, in a
	// legacy-compatible single-string envelope format.
	LevelStandard SecurityLevel = iota

	// LevelEnhanced applies authenticated encryption (AES-256-GCM) without
	// steganography.
	LevelEnhanced

	// LevelMaximum combines authenticated encryption with LSB image
	// steganography and an independent password-stretching layer.
	LevelMaximum
)

// String returns the lowercase name of the level.
func (l SecurityLevel) String() string {
	switch l {
	case LevelStandard:
		return "standard"
	case LevelEnhanced:
		return "enhanced"
	case LevelMaximum:
		return "maximum"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// ParseSecurityLevel converts a level name to a SecurityLevel.
func ParseSecurityLevel(s string) (SecurityLevel, error) {
	switch s {
	case "standard":
		return LevelStandard, nil
	case "enhanced":
		return LevelEnhanced, nil
	case "maximum":
		return LevelMaximum, nil
	default:
		return 0, fmt.Errorf("unknown security level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so levels serialize by name.
func (l SecurityLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *SecurityLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseSecurityLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// StandardArtifact is the legacy Standard-tier at-rest format: salt, IV,
// ciphertext and tag combined into one opaque base64 string.
type StandardArtifact struct {
	Envelope string `json:"envelope"`
}

// SecuredArtifact is the tagged union over the three tier artifact shapes.
// Exactly one of Standard, Enhanced, Maximum is set, matching Level. The tag
// is checked before any cryptographic operation so cross-tier recovery is
// rejected up front.
type SecuredArtifact struct {
	Address    WalletAddress `json:"address"`
	ExternalID string        `json:"externalId"`
	Level      SecurityLevel `json:"level"`
	CreatedAt  time.Time     `json:"createdAt"`

	// FallbackReason is set when the artifact was created at a lower tier
	// than requested (Maximum creation failure downgrades to Enhanced).
	// Empty for artifacts created at the requested tier.
	FallbackReason string `json:"fallbackReason,omitempty"`

	Standard *StandardArtifact       `json:"standard,omitempty"`
	Enhanced *EncryptionEnvelope     `json:"enhanced,omitempty"`
	Maximum  *CombinedSecurityResult `json:"maximum,omitempty"`
}

// Validate checks that the artifact carries exactly the variant named by its
// level tag and that the variant itself is structurally sound.
func (a *SecuredArtifact) Validate() error {
	if a.Address == "" {
		return fmt.Errorf("%w: missing wallet address", ErrMalformedResult)
	}

	set := 0
	if a.Standard != nil {
		set++
	}
	if a.Enhanced != nil {
		set++
	}
	if a.Maximum != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%w: artifact must carry exactly one tier payload, has %d", ErrMalformedResult, set)
	}

	switch a.Level {
	case LevelStandard:
		if a.Standard == nil {
			return fmt.Errorf("%w: level %s, payload %s", ErrTierMismatch, a.Level, a.payloadLevel())
		}
		if a.Standard.Envelope == "" {
			return fmt.Errorf("%w: empty standard envelope", ErrMalformedResult)
		}
	case LevelEnhanced:
		if a.Enhanced == nil {
			return fmt.Errorf("%w: level %s, payload %s", ErrTierMismatch, a.Level, a.payloadLevel())
		}
		if err := a.Enhanced.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResult, err)
		}
	case LevelMaximum:
		if a.Maximum == nil {
			return fmt.Errorf("%w: level %s, payload %s", ErrTierMismatch, a.Level, a.payloadLevel())
		}
		if err := a.Maximum.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown level %d", ErrMalformedResult, int(a.Level))
	}
	return nil
}

func (a *SecuredArtifact) payloadLevel() SecurityLevel {
	switch {
	case a.Standard != nil:
		return LevelStandard
	case a.Enhanced != nil:
		return LevelEnhanced
	default:
		return LevelMaximum
	}
}
