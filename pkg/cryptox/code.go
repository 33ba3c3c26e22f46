package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// RandomString draws n characters uniformly from alphabet using the
// system CSPRNG.
func RandomString(alphabet string, n int) (string, error) {
	if alphabet == "" || n <= 0 {
		return "", errors.New("cryptox: empty alphabet or length")
	}

	limit := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("cryptox: random index: %w", err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
