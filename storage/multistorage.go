package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sealpact/walletcore/interfaces"
)

// MultiStorage aggregates several backends for redundancy: Store and
// Replace write to every available backend, Fetch returns the artifact from
// the first backend that has it.
type MultiStorage struct {
	backends []interfaces.ArtifactStorage
	log      *slog.Logger
}

// NewMultiStorage creates a multi-backend store.
func NewMultiStorage(backends []interfaces.ArtifactStorage, log *slog.Logger) *MultiStorage {
	if log == nil {
		log = slog.Default()
	}
	return &MultiStorage{backends: backends, log: log}
}

// Store writes the artifact to all available backends; it succeeds if at
// least one backend accepted the write.
func (m *MultiStorage) Store(ctx context.Context, artifact *interfaces.SecuredArtifact) error {
	return m.writeAll(ctx, artifact, interfaces.ArtifactStorage.Store, "store")
}

// Replace swaps the artifact on all available backends; it succeeds if at
// least one backend accepted the write.
func (m *MultiStorage) Replace(ctx context.Context, artifact *interfaces.SecuredArtifact) error {
	return m.writeAll(ctx, artifact, interfaces.ArtifactStorage.Replace, "replace")
}

func (m *MultiStorage) writeAll(ctx context.Context, artifact *interfaces.SecuredArtifact, op func(interfaces.ArtifactStorage, context.Context, *interfaces.SecuredArtifact) error, name string) error {
	var errs []error
	stored := 0

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			m.log.Debug("backend unavailable, skipping write",
				slog.String("backend", backend.Name()))
			continue
		}
		if err := op(backend, ctx, artifact); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			m.log.Warn("backend write failed",
				slog.String("op", name),
				slog.String("backend", backend.Name()),
				slog.String("err", err.Error()))
			continue
		}
		stored++
	}

	if stored == 0 {
		if len(errs) == 0 {
			return interfaces.ErrBackendUnavailable
		}
		return fmt.Errorf("failed to %s artifact on any backend: %w", name, errors.Join(errs...))
	}
	return nil
}

// Fetch returns the artifact from the first available backend that has it.
func (m *MultiStorage) Fetch(ctx context.Context, address interfaces.WalletAddress) (*interfaces.SecuredArtifact, error) {
	start := time.Now()
	var errs []error

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			continue
		}

		artifact, err := backend.Fetch(ctx, address)
		if err == nil {
			m.log.Debug("fetched artifact",
				slog.String("backend", backend.Name()),
				slog.Duration("duration", time.Since(start)))
			return artifact, nil
		}
		if !errors.Is(err, interfaces.ErrArtifactNotFound) {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("fetch failed: %w", errors.Join(errs...))
	}
	return nil, interfaces.ErrArtifactNotFound
}

// Delete removes the artifact from every available backend.
func (m *MultiStorage) Delete(ctx context.Context, address interfaces.WalletAddress) error {
	var errs []error
	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			continue
		}
		if err := backend.Delete(ctx, address); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("delete failed: %w", errors.Join(errs...))
	}
	return nil
}

// Available reports whether any backend is reachable.
func (m *MultiStorage) Available(ctx context.Context) bool {
	for _, backend := range m.backends {
		if backend.Available(ctx) {
			return true
		}
	}
	return false
}

// Name identifies the backend for logging.
func (m *MultiStorage) Name() string { return "multi" }

// LocationURI lists the aggregated backend URIs.
func (m *MultiStorage) LocationURI() string {
	uris := make([]string, 0, len(m.backends))
	for _, backend := range m.backends {
		uris = append(uris, backend.LocationURI())
	}
	return fmt.Sprintf("multi://%v", uris)
}
