package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/sealpact/walletcore/interfaces"
)

// IPFSBackend stores artifacts on an IPFS node through the mutable files
// (MFS) API, so artifacts can be fetched back by wallet address rather than
// by content hash.
type IPFSBackend struct {
	shell       *shell.Shell
	rootDir     string
	log         *slog.Logger
	locationURI string
}

// NewIPFSBackend creates an IPFS storage backend talking to the node API at
// host:port. Artifacts live under rootDir in the node's MFS namespace.
func NewIPFSBackend(host, port, rootDir string, log *slog.Logger) (*IPFSBackend, error) {
	if log == nil {
		log = slog.Default()
	}
	if rootDir == "" {
		rootDir = "/walletcore"
	}
	if !strings.HasPrefix(rootDir, "/") {
		rootDir = "/" + rootDir
	}

	apiURL := fmt.Sprintf("%s:%s", host, port)
	return &IPFSBackend{
		shell:       shell.NewShell(apiURL),
		rootDir:     rootDir,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s%s", apiURL, rootDir),
	}, nil
}

func (b *IPFSBackend) artifactPath(address interfaces.WalletAddress) string {
	return fmt.Sprintf("%s/%s.json", b.rootDir, address.String())
}

// Store persists an artifact.
func (b *IPFSBackend) Store(ctx context.Context, artifact *interfaces.SecuredArtifact) error {
	data, err := marshalArtifact(artifact)
	if err != nil {
		return err
	}

	path := b.artifactPath(artifact.Address)
	err = b.shell.FilesWrite(ctx, path, bytes.NewReader(data),
		shell.FilesWrite.Create(true),
		shell.FilesWrite.Parents(true),
		shell.FilesWrite.Truncate(true))
	if err != nil {
		return fmt.Errorf("failed to store artifact in IPFS: %w", err)
	}

	b.log.Debug("stored artifact",
		slog.String("path", path),
		slog.Int("size", len(data)))
	return nil
}

// Fetch retrieves the artifact for an address.
func (b *IPFSBackend) Fetch(ctx context.Context, address interfaces.WalletAddress) (*interfaces.SecuredArtifact, error) {
	reader, err := b.shell.FilesRead(ctx, b.artifactPath(address))
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return nil, interfaces.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to fetch artifact from IPFS: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact body: %w", err)
	}
	return unmarshalArtifact(data)
}

// Replace overwrites the stored artifact. MFS writes with truncate replace
// the file content in one operation.
func (b *IPFSBackend) Replace(ctx context.Context, artifact *interfaces.SecuredArtifact) error {
	return b.Store(ctx, artifact)
}

// Delete removes the artifact for an address.
func (b *IPFSBackend) Delete(ctx context.Context, address interfaces.WalletAddress) error {
	err := b.shell.FilesRm(ctx, b.artifactPath(address), true)
	if err != nil && !strings.Contains(err.Error(), "does not exist") {
		return fmt.Errorf("failed to delete artifact from IPFS: %w", err)
	}
	return nil
}

// Available reports whether the IPFS node answers.
func (b *IPFSBackend) Available(context.Context) bool {
	return b.shell.IsUp()
}

// Name identifies the backend for logging.
func (b *IPFSBackend) Name() string { return "ipfs" }

// LocationURI returns the URI this backend was created from.
func (b *IPFSBackend) LocationURI() string { return b.locationURI }
