// Package cryptoutils implements the key derivation unit and the
// authenticated cipher of the wallet security core.
//
// Key derivation is PBKDF2-HMAC-SHA256 with high iteration counts: 310,000
// iterations for envelope keys and a separate 100,000-iteration derivation
// for the enhanced-password layer used by the Maximum tier. Derivation is
// deterministic for a given password, salt and iteration count, which is
// what makes decryption possible at all.
//
// The cipher is AES-256-GCM. Every encryption generates a fresh 32-byte salt
// and 12-byte IV; the GCM output is split into ciphertext and a 16-byte
// authentication tag, and all four values travel base64-encoded in an
// interfaces.EncryptionEnvelope. Decryption recombines them and fails closed
// on any tag mismatch: no partial or garbled plaintext is ever returned.
//
// The deriver is injected through the KeyDeriver interface rather than
// probed from the environment, so alternative implementations (hardware,
// test doubles) can be substituted at construction time.
package cryptoutils
