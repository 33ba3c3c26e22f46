package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrPasswordMismatch = errors.New("cryptox: password does not match")
	ErrInvalidHash      = errors.New("cryptox: invalid hash format")
)

// Argon2Params are the Argon2id cost parameters.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultArgon2Params follows the OWASP minimum for Argon2id (19 MiB, t=2).
var DefaultArgon2Params = Argon2Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

// Argon2Hasher hashes passwords into PHC strings:
//
//	$argon2id$v=19$m=<mem>,t=<iters>,p=<par>$<salt>$<hash>
//
// The pepper is appended to the password before hashing and is never
// written to the PHC string. Verification reads the cost parameters back
// from the string so older hashes keep working after a parameter change.
type Argon2Hasher struct {
	Params Argon2Params
	Pepper string
}

// NewArgon2Hasher returns a hasher using DefaultArgon2Params.
func NewArgon2Hasher(pepper string) *Argon2Hasher {
	return &Argon2Hasher{Params: DefaultArgon2Params, Pepper: pepper}
}

// Hash returns the PHC encoding of password.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	p := h.Params
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	sum := argon2.IDKey([]byte(password+h.Pepper), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify returns nil when password matches encoded, ErrPasswordMismatch
// when it does not and ErrInvalidHash when encoded cannot be parsed.
func (h *Argon2Hasher) Verify(password, encoded string) error {
	// ["", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrInvalidHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return fmt.Errorf("%w: unsupported version %s", ErrInvalidHash, parts[2])
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %w", ErrInvalidHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%w: hash: %w", ErrInvalidHash, err)
	}

	got := argon2.IDKey([]byte(password+h.Pepper), salt, iters, mem, par, uint32(len(want))) // #nosec G115
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
