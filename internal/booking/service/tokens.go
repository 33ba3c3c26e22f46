package service

import (
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/domain"
	"github.com/aussiebroadwan/booking/pkg/cryptox"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
)

// AccessSigner signs access-token claims. *jwtx.KeyManager satisfies it.
type AccessSigner interface {
	Sign(claims jwtx.Claims) (string, error)
}

// TokenIssuer mints token pairs. Access tokens are EdDSA JWTs; refresh
// tokens are opaque random strings that contain no dots, so neither can be
// mistaken for the other.
type TokenIssuer struct {
	Signer     AccessSigner
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (t *TokenIssuer) accessTTL() time.Duration {
	if t.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return t.AccessTTL
}

func (t *TokenIssuer) refreshTTL() time.Duration {
	if t.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return t.RefreshTTL
}

// IssueAccess signs an access token for u valid from now.
func (t *TokenIssuer) IssueAccess(u domain.User, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(jwtx.AccessClaimsParams{
		Subject:  u.ID.String(),
		Email:    u.Email,
		Name:     u.FullName,
		Issuer:   t.Issuer,
		Audience: t.Audience,
		TTL:      t.accessTTL(),
		Now:      now,
	})
	return t.Signer.Sign(claims)
}

// NewRefreshToken returns a fresh 256-bit token and the fingerprint that
// gets stored in its place.
func (t *TokenIssuer) NewRefreshToken() (token, fingerprint string, err error) {
	token, err = cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", "", err
	}
	return token, cryptox.FingerprintToken(token), nil
}

// issuedPair is a token pair plus what the store needs to persist it.
type issuedPair struct {
	pair        *domain.TokenPair
	fingerprint string
	expiresAt   time.Time
}

func (t *TokenIssuer) issue(u domain.User, now time.Time) (issuedPair, error) {
	access, err := t.IssueAccess(u, now)
	if err != nil {
		return issuedPair{}, err
	}
	refresh, fp, err := t.NewRefreshToken()
	if err != nil {
		return issuedPair{}, err
	}
	return issuedPair{
		pair: &domain.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    t.accessTTL(),
		},
		fingerprint: fp,
		expiresAt:   now.Add(t.refreshTTL()),
	}, nil
}
