package cryptox

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateEd25519Key(t *testing.T) {
	key, err := GenerateEd25519Key()
	require.NoError(t, err)
	require.Len(t, key, ed25519.PrivateKeySize)

	msg := []byte("booking")
	sig := ed25519.Sign(key, msg)
	require.True(t, ed25519.Verify(key.Public().(ed25519.PublicKey), msg, sig))

	other, err := GenerateEd25519Key()
	require.NoError(t, err)
	require.NotEqual(t, key, other)
}
