package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes used when the caller does not configure its own.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenUseAccess marks a JWT as a bearer access token. Verifiers reject
// any token that does not carry it.
const TokenUseAccess = "access"

// Claims are the access-token claims issued by the booking service.
type Claims struct {
	jwt.RegisteredClaims

	// TokenUse distinguishes access tokens from anything else that might
	// be signed with the same keys.
	TokenUse string `json:"token_use"`

	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// AccessClaimsParams groups the inputs of NewAccessClaims.
type AccessClaimsParams struct {
	Subject  string
	Email    string
	Name     string
	Issuer   string
	Audience []string
	TTL      time.Duration
	Now      time.Time
}

// NewAccessClaims builds access-token claims valid from p.Now for p.TTL.
func NewAccessClaims(p AccessClaimsParams) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings(p.Audience),
			IssuedAt:  jwt.NewNumericDate(p.Now),
			NotBefore: jwt.NewNumericDate(p.Now),
			ExpiresAt: jwt.NewNumericDate(p.Now.Add(p.TTL)),
			ID:        NewJTI(),
		},
		TokenUse: TokenUseAccess,
		Email:    p.Email,
		Name:     p.Name,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer. An empty expectation is not enforced.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience passes when any expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateTimes checks exp and nbf against now, allowing leeway for clock
// skew in both directions.
func (c *Claims) ValidateTimes(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateUse rejects tokens that are not access tokens.
func (c *Claims) ValidateUse() error {
	if c.TokenUse != TokenUseAccess {
		return ErrTokenUse
	}
	return nil
}
