package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates an access token and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrTokenUse    = errors.New("jwtx: not an access token")
)

// DefaultLeeway is the clock skew tolerated on exp and nbf.
const DefaultLeeway = 30 * time.Second

// EdDSAVerifier checks EdDSA signatures against a KeySet and then enforces
// issuer, audience, lifetime and token use.
type EdDSAVerifier struct {
	keys   *KeySet
	issuer string
	aud    []string
	leeway time.Duration
	now    func() time.Time
}

// NewEdDSAVerifier returns a verifier bound to keys.
func NewEdDSAVerifier(keys *KeySet, issuer string, aud []string) *EdDSAVerifier {
	return &EdDSAVerifier{
		keys:   keys,
		issuer: issuer,
		aud:    aud,
		leeway: DefaultLeeway,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Tests use it to check expiry.
func (v *EdDSAVerifier) WithClock(now func() time.Time) *EdDSAVerifier {
	v.now = now
	return v
}

// Verify implements Verifier.
func (v *EdDSAVerifier) Verify(tokenStr string) (Claims, error) {
	// Time based checks run below with our own clock and leeway.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKID
		}
		pub, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
		}
		return ed25519.PublicKey(pub), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateUse(); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.aud); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateTimes(v.now().UTC(), v.leeway); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
