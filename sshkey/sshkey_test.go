package sshkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func generateKey(t *testing.T) PublicKey {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)

	key, err := Wrap(sshPub)
	require.NoError(t, err)
	return key
}

func TestWrap_NilKey(t *testing.T) {
	_, err := Wrap(nil)
	require.Error(t, err)
}

func TestBase64RoundTrip(t *testing.T) {
	key := generateKey(t)

	b64 := key.Base64()
	require.NotEmpty(t, b64)

	imported, err := FromBase64(b64, "ssh-ed25519")
	require.NoError(t, err)
	assert.True(t, key.Equal(imported))
	assert.Equal(t, key.Base64(), imported.Base64())
}

func TestFromBase64_TypeMismatch(t *testing.T) {
	key := generateKey(t)

	_, err := FromBase64(key.Base64(), "ssh-rsa")
	require.Error(t, err)

	// Empty expected type skips the check.
	_, err = FromBase64(key.Base64(), "")
	require.NoError(t, err)
}

func TestFromBase64_Invalid(t *testing.T) {
	_, err := FromBase64("not base64!!!", "ssh-ed25519")
	require.Error(t, err)

	_, err = FromBase64("AAAA", "ssh-ed25519")
	require.Error(t, err)
}

func TestAuthorizedKeyRoundTrip(t *testing.T) {
	key := generateKey(t)

	line := key.MarshalAuthorizedKey()
	require.True(t, strings.HasPrefix(string(line), "ssh-ed25519 "))

	parsed, err := ParseAuthorizedKey(line)
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))
}

func TestParseAuthorizedKey_Invalid(t *testing.T) {
	_, err := ParseAuthorizedKey([]byte("garbage"))
	require.Error(t, err)
}

func TestType(t *testing.T) {
	key := generateKey(t)
	assert.Equal(t, "ssh-ed25519", key.Type())
}

func TestFingerprint(t *testing.T) {
	key := generateKey(t)
	fp := key.Fingerprint()
	assert.True(t, strings.HasPrefix(fp, "SHA256:"), "fingerprint %q", fp)

	// Fingerprints are stable and key specific.
	assert.Equal(t, fp, key.Fingerprint())
	other := generateKey(t)
	assert.NotEqual(t, fp, other.Fingerprint())
}

func TestEqual(t *testing.T) {
	a := generateKey(t)
	b := generateKey(t)

	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(PublicKey{}))
	assert.True(t, PublicKey{}.Equal(PublicKey{}))
}

func TestIsZero(t *testing.T) {
	assert.True(t, PublicKey{}.IsZero())
	assert.False(t, generateKey(t).IsZero())
}
