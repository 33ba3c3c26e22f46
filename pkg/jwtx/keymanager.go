package jwtx

import (
	"fmt"
	"math/rand/v2"

	"github.com/aussiebroadwan/booking/pkg/cryptox"
)

// KeyManager owns the process's signing keys. Keys are generated at
// startup and live only in memory, so every access token becomes invalid
// when the process restarts. Refresh tokens are stored server side and
// survive a restart.
type KeyManager struct {
	signers  []Signer
	keys     *KeySet
	verifier *EdDSAVerifier
}

// KeyManagerOptions configures NewEphemeralKeyManager.
type KeyManagerOptions struct {
	Issuer   string
	Audience []string

	// NumKeys is clamped to [1, 10]. Zero means 3.
	NumKeys int

	// KeyPrefix is prepended to every generated kid.
	KeyPrefix string
}

// NewEphemeralKeyManager generates NumKeys Ed25519 keys and wires them
// into a KeySet and verifier.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: issuer is required")
	}

	n := opts.NumKeys
	if n <= 0 {
		n = 3
	}
	n = min(n, 10)

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "booking"
	}

	keyset := NewKeySet()
	signers := make([]Signer, 0, n)
	for i := range n {
		suffix, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			return nil, fmt.Errorf("jwtx: key id %d: %w", i+1, err)
		}
		key, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: key %d: %w", i+1, err)
		}
		signer, err := NewEdDSASigner(prefix+"-"+suffix, key)
		if err != nil {
			return nil, err
		}
		if err := keyset.AddSigner(signer); err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}

	return &KeyManager{
		signers:  signers,
		keys:     keyset,
		verifier: NewEdDSAVerifier(keyset, opts.Issuer, opts.Audience),
	}, nil
}

// GetSigner picks one of the signing keys at random.
func (km *KeyManager) GetSigner() Signer {
	if len(km.signers) == 1 {
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}

// Sign signs claims with a randomly chosen key.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	return km.GetSigner().Sign(claims)
}

func (km *KeyManager) NumSigners() int { return len(km.signers) }

func (km *KeyManager) KeySet() *KeySet { return km.keys }

func (km *KeyManager) Verifier() *EdDSAVerifier { return km.verifier }

// IsReady reports whether keys are loaded.
func (km *KeyManager) IsReady() bool {
	return km != nil && km.keys.IsReady()
}
