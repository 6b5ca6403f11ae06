// Package sshkey is a thin ownership wrapper around ssh public keys. It
// adds no algorithmic content; parsing, serialization, and comparison are
// delegated to golang.org/x/crypto/ssh.
package sshkey

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// PublicKey owns one ssh public key.
type PublicKey struct {
	key ssh.PublicKey
}

// Wrap takes ownership of an already-parsed key.
func Wrap(key ssh.PublicKey) (PublicKey, error) {
	if key == nil {
		return PublicKey{}, fmt.Errorf("sshkey: nil key")
	}
	return PublicKey{key: key}, nil
}

// ParseAuthorizedKey parses a key in authorized_keys format
// ("ssh-ed25519 AAAA... comment").
func ParseAuthorizedKey(line []byte) (PublicKey, error) {
	key, _, _, _, err := ssh.ParseAuthorizedKey(line)
	if err != nil {
		return PublicKey{}, fmt.Errorf("sshkey: parse authorized key: %w", err)
	}
	return PublicKey{key: key}, nil
}

// FromBase64 imports a public key from its base64 wire form and verifies it
// against the expected key type (e.g. "ssh-ed25519"). An empty keyType skips
// the type check.
func FromBase64(b64, keyType string) (PublicKey, error) {
	wire, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return PublicKey{}, fmt.Errorf("sshkey: decode base64: %w", err)
	}
	key, err := ssh.ParsePublicKey(wire)
	if err != nil {
		return PublicKey{}, fmt.Errorf("sshkey: import key of type %q: %w", keyType, err)
	}
	if keyType != "" && key.Type() != keyType {
		return PublicKey{}, fmt.Errorf("sshkey: key has type %q, want %q", key.Type(), keyType)
	}
	return PublicKey{key: key}, nil
}

// IsZero reports whether the wrapper holds no key.
func (k PublicKey) IsZero() bool { return k.key == nil }

// Key returns the wrapped key without transferring ownership.
func (k PublicKey) Key() ssh.PublicKey { return k.key }

// Type returns the key algorithm name, e.g. "ssh-ed25519".
func (k PublicKey) Type() string { return k.key.Type() }

// Base64 returns the base64 representation of the key's wire form.
func (k PublicKey) Base64() string {
	return base64.StdEncoding.EncodeToString(k.key.Marshal())
}

// Fingerprint returns the SHA256 fingerprint in the usual "SHA256:..." form.
func (k PublicKey) Fingerprint() string {
	return ssh.FingerprintSHA256(k.key)
}

// MarshalAuthorizedKey returns the key in authorized_keys format, with a
// trailing newline.
func (k PublicKey) MarshalAuthorizedKey() []byte {
	return ssh.MarshalAuthorizedKey(k.key)
}

// Equal reports whether both wrappers hold the same public key material.
func (k PublicKey) Equal(other PublicKey) bool {
	if k.key == nil || other.key == nil {
		return k.key == other.key
	}
	return k.key.Type() == other.key.Type() && bytes.Equal(k.key.Marshal(), other.key.Marshal())
}
