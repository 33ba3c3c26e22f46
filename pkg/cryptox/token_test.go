package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		length int
	}{
		{"128-bit token", TokenSize128, 22},
		{"256-bit token", TokenSize256, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, token, tt.length)
			require.False(t, strings.Contains(token, "."), "opaque tokens must not look like a JWT")

			token2, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, token, token2)
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	fp1a := FingerprintToken("token-1")
	fp1b := FingerprintToken("token-1")
	fp2 := FingerprintToken("token-2")

	require.Equal(t, fp1a, fp1b)
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 43)
	require.NotEqual(t, "token-1", fp1a)
}

func TestRandomString(t *testing.T) {
	const alphabet = "ABC123"

	s, err := RandomString(alphabet, 64)
	require.NoError(t, err)
	require.Len(t, s, 64)
	for _, r := range s {
		require.Contains(t, alphabet, string(r))
	}

	_, err = RandomString("", 6)
	require.Error(t, err)
	_, err = RandomString(alphabet, 0)
	require.Error(t, err)
}
