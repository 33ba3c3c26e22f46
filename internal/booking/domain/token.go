package domain

import "time"

// TokenPair is what login and refresh hand back to the client: a short
// lived JWT access token and the opaque refresh token that replaces any
// previous one.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}
