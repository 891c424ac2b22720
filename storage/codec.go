package storage

import (
	"encoding/json"
	"fmt"

	"github.com/sealpact/walletcore/interfaces"
)

// marshalArtifact serializes an artifact for storage after validating it,
// so a backend never persists a structurally broken artifact.
func marshalArtifact(artifact *interfaces.SecuredArtifact) ([]byte, error) {
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize artifact: %w", err)
	}
	return data, nil
}

// unmarshalArtifact parses and validates a stored artifact document.
func unmarshalArtifact(data []byte) (*interfaces.SecuredArtifact, error) {
	var artifact interfaces.SecuredArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrMalformedResult, err)
	}
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	return &artifact, nil
}
