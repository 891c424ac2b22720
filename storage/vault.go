package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/sealpact/walletcore/interfaces"
)

// VaultBackend stores artifacts in HashiCorp Vault's KV v2 secrets engine.
// Vault versions every write, so Replace is a plain put and the previous
// artifact version remains recoverable on the server side.
type VaultBackend struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultBackend creates a Vault storage backend. An empty token falls
// back to the standard VAULT_TOKEN environment handling of the Vault client.
func NewVaultBackend(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultBackend, error) {
	if log == nil {
		log = slog.Default()
	}

	config := api.DefaultConfig()
	config.Address = address
	config.Timeout = 30 * time.Second

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	return &VaultBackend{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", address, mountPath, dataPath),
	}, nil
}

func (b *VaultBackend) secretPath(address interfaces.WalletAddress) string {
	return fmt.Sprintf("%s/data/%s/%s", b.mountPath, b.dataPath, address.String())
}

// Store persists an artifact.
func (b *VaultBackend) Store(ctx context.Context, artifact *interfaces.SecuredArtifact) error {
	data, err := marshalArtifact(artifact)
	if err != nil {
		return err
	}

	path := b.secretPath(artifact.Address)
	_, err = b.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"data": map[string]interface{}{
			"artifact": string(data),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to store artifact in Vault: %w", err)
	}

	b.log.Debug("stored artifact",
		slog.String("path", path),
		slog.Int("size", len(data)))
	return nil
}

// Fetch retrieves the artifact for an address.
func (b *VaultBackend) Fetch(ctx context.Context, address interfaces.WalletAddress) (*interfaces.SecuredArtifact, error) {
	secret, err := b.client.Logical().ReadWithContext(ctx, b.secretPath(address))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artifact from Vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, interfaces.ErrArtifactNotFound
	}

	inner, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, interfaces.ErrArtifactNotFound
	}
	document, ok := inner["artifact"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected Vault secret shape", interfaces.ErrMalformedResult)
	}
	return unmarshalArtifact([]byte(document))
}

// Replace overwrites the stored artifact; Vault KV v2 writes are atomic and
// versioned.
func (b *VaultBackend) Replace(ctx context.Context, artifact *interfaces.SecuredArtifact) error {
	return b.Store(ctx, artifact)
}

// Delete removes the artifact for an address.
func (b *VaultBackend) Delete(ctx context.Context, address interfaces.WalletAddress) error {
	_, err := b.client.Logical().DeleteWithContext(ctx, b.secretPath(address))
	if err != nil {
		return fmt.Errorf("failed to delete artifact from Vault: %w", err)
	}
	return nil
}

// Available probes the Vault server's health endpoint.
func (b *VaultBackend) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := b.client.Sys().HealthWithContext(probeCtx)
	return err == nil && health != nil && !health.Sealed
}

// Name identifies the backend for logging.
func (b *VaultBackend) Name() string { return "vault" }

// LocationURI returns the URI this backend was created from.
func (b *VaultBackend) LocationURI() string { return b.locationURI }
