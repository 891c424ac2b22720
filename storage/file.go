package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sealpact/walletcore/interfaces"
)

// FileBackend stores artifacts on the local filesystem, one JSON document
// per wallet address. Replace writes to a temporary file and renames it
// over the old document, which is atomic on POSIX filesystems.
type FileBackend struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileBackend creates a file backend rooted at baseDir, creating the
// directory if needed.
func NewFileBackend(baseDir string, log *slog.Logger) (*FileBackend, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Join(baseDir, "artifacts"), 0700); err != nil {
		return nil, fmt.Errorf("failed to create artifacts directory: %w", err)
	}

	return &FileBackend{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

func (b *FileBackend) artifactPath(address interfaces.WalletAddress) string {
	return filepath.Join(b.baseDir, "artifacts", address.String()+".json")
}

// Store persists an artifact.
func (b *FileBackend) Store(_ context.Context, artifact *interfaces.SecuredArtifact) error {
	data, err := marshalArtifact(artifact)
	if err != nil {
		return err
	}

	path := b.artifactPath(artifact.Address)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	b.log.Debug("stored artifact",
		slog.String("path", path),
		slog.String("level", artifact.Level.String()),
		slog.Int("size", len(data)))
	return nil
}

// Fetch retrieves the artifact for an address.
func (b *FileBackend) Fetch(_ context.Context, address interfaces.WalletAddress) (*interfaces.SecuredArtifact, error) {
	data, err := os.ReadFile(b.artifactPath(address))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return unmarshalArtifact(data)
}

// Replace atomically swaps the stored artifact: the new document is written
// to a temporary file first and renamed over the old one, so the previous
// artifact stays intact until the new one is durable.
func (b *FileBackend) Replace(_ context.Context, artifact *interfaces.SecuredArtifact) error {
	data, err := marshalArtifact(artifact)
	if err != nil {
		return err
	}

	path := b.artifactPath(artifact.Address)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+artifact.Address.String()+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary artifact: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary artifact: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set artifact permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace artifact: %w", err)
	}

	b.log.Debug("replaced artifact", slog.String("path", path))
	return nil
}

// Delete removes the artifact for an address. A missing artifact is not an
// error.
func (b *FileBackend) Delete(_ context.Context, address interfaces.WalletAddress) error {
	if err := os.Remove(b.artifactPath(address)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}

// Available reports whether the base directory is accessible.
func (b *FileBackend) Available(context.Context) bool {
	_, err := os.Stat(b.baseDir)
	return err == nil
}

// Name identifies the backend for logging.
func (b *FileBackend) Name() string { return "file" }

// LocationURI returns the URI this backend was created from.
func (b *FileBackend) LocationURI() string { return b.locationURI }
