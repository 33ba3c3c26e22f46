package bookingsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// refreshSkew renews the access token this long before it expires.
const refreshSkew = 30 * time.Second

// ErrNoRefreshToken is returned when the access token has expired and the
// session has nothing to renew it with.
var ErrNoRefreshToken = errors.New("bookingsdk: access token expired and no refresh token available")

// Session is an authenticated client. It is safe for concurrent use;
// concurrent callers share a single refresh.
type Session struct {
	client *Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(c *Client, tokens *TokenResponse) *Session {
	s := &Session{client: c}
	s.store(tokens)
	return s
}

func (s *Session) store(tokens *TokenResponse) {
	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
	s.expiresAt = time.Now().Add(time.Duration(tokens.ExpiresIn)*time.Second - refreshSkew)
}

// token returns a usable access token, refreshing it first if needed.
func (s *Session) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}
	if s.refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	tokens, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", err
	}
	s.store(tokens)
	return s.accessToken, nil
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// Expire marks the access token as stale so the next call refreshes it.
func (s *Session) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = time.Time{}
}

func (s *Session) call(ctx context.Context, method, path string, in, out any, expected int) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}
	return s.client.call(ctx, method, path, token, in, out, expected)
}

// Logout revokes the refresh token on the server and forgets it locally.
// The access token stays valid until it expires.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.call(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, http.StatusNoContent); err != nil {
		return err
	}
	s.mu.Lock()
	s.refreshToken = ""
	s.mu.Unlock()
	return nil
}

func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	var user UserResponse
	if err := s.call(ctx, http.MethodGet, "/v1/users/me", nil, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// User fetches a profile by id. The server only answers for the
// session's own account.
func (s *Session) User(ctx context.Context, userID string) (*UserResponse, error) {
	var user UserResponse
	if err := s.call(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(userID), nil, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserResponse, error) {
	var user UserResponse
	if err := s.call(ctx, http.MethodPut, "/v1/users/me", req, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword also revokes the session's refresh token on the server.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	req := ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	return s.call(ctx, http.MethodPut, "/v1/users/me/password", req, nil, http.StatusNoContent)
}

// DeleteAccount removes the user and dissolves every group they own.
func (s *Session) DeleteAccount(ctx context.Context) error {
	return s.call(ctx, http.MethodDelete, "/v1/users/me", nil, nil, http.StatusNoContent)
}
