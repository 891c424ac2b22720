package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sealpact/walletcore/interfaces"
)

// Factory creates artifact storage backends from URI strings and assembles
// multi-backend configurations for redundant storage.
type Factory struct {
	log *slog.Logger
}

// NewFactory creates a factory that can instantiate storage backends.
func NewFactory(log *slog.Logger) *Factory {
	if log == nil {
		log = slog.Default()
	}
	return &Factory{log: log}
}

// BackendFor creates a storage backend from a location URI.
// The URI format is [scheme]://[auth@]host[:port][/path][?params]
//
// Supported schemes:
//   - file:// - Local filesystem storage
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2 secrets engine
//   - ipfs:// - IPFS node MFS storage
//
// Returns ErrInvalidLocationURI if the URI cannot be parsed or the scheme
// is unsupported.
func (f *Factory) BackendFor(locationURI string) (interfaces.ArtifactStorage, error) {
	u, err := url.Parse(locationURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return f.createFileBackend(u)
	case "s3":
		return f.createS3Backend(u)
	case "vault":
		return f.createVaultBackend(u)
	case "ipfs":
		return f.createIPFSBackend(u)
	default:
		return nil, fmt.Errorf("%w: unsupported backend scheme %q", interfaces.ErrInvalidLocationURI, u.Scheme)
	}
}

// MultiBackendFor creates a multi-storage backend from a list of location
// URIs. Invalid URIs are skipped with a warning; at least one must be valid.
func (f *Factory) MultiBackendFor(locationURIs []string) (interfaces.ArtifactStorage, error) {
	backends := make([]interfaces.ArtifactStorage, 0, len(locationURIs))

	for _, uri := range locationURIs {
		backend, err := f.BackendFor(uri)
		if err != nil {
			f.log.Warn("failed to create storage backend",
				slog.String("locationURI", uri),
				slog.String("err", err.Error()))
			continue
		}
		backends = append(backends, backend)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("%w: no valid storage backends", interfaces.ErrInvalidLocationURI)
	}

	return NewMultiStorage(backends, f.log), nil
}

// createFileBackend creates a filesystem backend.
// URI format: file:///absolute/path or file://./relative/path
func (f *Factory) createFileBackend(u *url.URL) (interfaces.ArtifactStorage, error) {
	path := u.Path
	if u.Host != "" {
		path = u.Host + "/" + strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI", interfaces.ErrInvalidLocationURI)
	}
	return NewFileBackend(path, f.log)
}

// createS3Backend creates an S3 backend.
// URI format: s3://[ACCESS_KEY:SECRET_KEY@]bucket/prefix/?region=us-west-2&endpoint=minio.local:9000
func (f *Factory) createS3Backend(u *url.URL) (interfaces.ArtifactStorage, error) {
	bucket := u.Host
	if bucket == "" {
		return nil, fmt.Errorf("%w: missing bucket in s3 URI", interfaces.ErrInvalidLocationURI)
	}
	prefix := strings.Trim(u.Path, "/")

	query := u.Query()
	region := query.Get("region")
	if region == "" {
		region = "us-east-1"
	}
	endpoint := query.Get("endpoint")

	var accessKey, secretKey string
	if u.User != nil {
		accessKey = u.User.Username()
		secretKey, _ = u.User.Password()
	}

	return NewS3Backend(bucket, prefix, region, endpoint, accessKey, secretKey, f.log)
}

// createVaultBackend creates a Vault KV v2 backend.
// URI format: vault://[TOKEN@]host:port/mount/path/?tls=true
func (f *Factory) createVaultBackend(u *url.URL) (interfaces.ArtifactStorage, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in vault URI", interfaces.ErrInvalidLocationURI)
	}

	scheme := "http"
	if u.Query().Get("tls") == "true" {
		scheme = "https"
	}
	vaultAddr := fmt.Sprintf("%s://%s", scheme, u.Host)

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		return nil, fmt.Errorf("%w: missing mount path in vault URI", interfaces.ErrInvalidLocationURI)
	}
	mountPath := parts[0]
	dataPath := "wallets"
	if len(parts) > 1 {
		dataPath = strings.Join(parts[1:], "/")
	}

	var token string
	if u.User != nil {
		token = u.User.Username()
	}

	return NewVaultBackend(vaultAddr, mountPath, dataPath, token, f.log)
}

// createIPFSBackend creates an IPFS MFS backend.
// URI format: ipfs://host:port/mfs/root/dir
func (f *Factory) createIPFSBackend(u *url.URL) (interfaces.ArtifactStorage, error) {
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing host in ipfs URI", interfaces.ErrInvalidLocationURI)
	}
	port := u.Port()
	if port == "" {
		port = "5001"
	}
	rootDir := strings.TrimSuffix(u.Path, "/")

	return NewIPFSBackend(host, port, rootDir, f.log)
}
