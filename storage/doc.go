// Package storage provides artifact persistence backends implementing
// interfaces.ArtifactStorage.
//
// Artifacts are keyed by wallet address and serialized as a single JSON
// document, with the Maximum tier's PNG stego image base64-encoded inside
// it. Keeping the three-part artifact (image, stego key, salt) in one
// document means it is stored and replaced as one unit: there is no window
// in which only part of an artifact is durable.
//
// Available backends:
//
//   - file://   local filesystem, replace via atomic rename
//   - s3://     Amazon S3 or compatible object storage
//   - vault://  HashiCorp Vault KV v2
//   - ipfs://   IPFS node via the mutable files (MFS) API
//
// BackendFor builds a backend from a location URI; NewMultiStorage
// aggregates several backends, storing to all of them and fetching from the
// first one that has the artifact.
package storage
