package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// cheap parameters keep the suite fast; production uses DefaultArgon2Params.
func testHasher(pepper string) *Argon2Hasher {
	return &Argon2Hasher{
		Params: Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16},
		Pepper: pepper,
	}
}

func TestArgon2Hasher_HashFormat(t *testing.T) {
	h := testHasher("pepper")

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "mật khẩu🔒"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
			require.Len(t, strings.Split(hash, "$"), 6)
			require.NoError(t, h.Verify(tt.password, hash))
		})
	}
}

func TestArgon2Hasher_UniqueSalts(t *testing.T) {
	h := testHasher("pepper")

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestArgon2Hasher_Verify(t *testing.T) {
	h := testHasher("pepper")
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		require.ErrorIs(t, h.Verify("battery staple", hash), ErrPasswordMismatch)
	})

	t.Run("different pepper", func(t *testing.T) {
		require.ErrorIs(t, testHasher("other").Verify("correct horse", hash), ErrPasswordMismatch)
	})

	t.Run("parameters read from hash", func(t *testing.T) {
		stronger := testHasher("pepper")
		stronger.Params.Iterations = 3
		require.NoError(t, stronger.Verify("correct horse", hash))
	})

	t.Run("malformed", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"plaintext",
			"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
		} {
			require.ErrorIs(t, h.Verify("x", bad), ErrInvalidHash, bad)
		}
	})
}

func TestLoadPepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadPepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadPepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o600))
	_, err = LoadPepper(empty)
	require.Error(t, err)

	_, err = LoadPepper("")
	require.Error(t, err)
}
