package bookingsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to a booking server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client with a 10 second request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	var user UserResponse
	if err := c.call(ctx, http.MethodPost, "/v1/auth/register", "", req, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var tokens TokenResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/login", "", req, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Refresh rotates refreshToken. The old token is invalid afterwards.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var tokens TokenResponse
	req := RefreshRequest{RefreshToken: refreshToken}
	if err := c.call(ctx, http.MethodPost, "/v1/auth/refresh", "", req, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// AuthenticateWithPassword logs in and wraps the tokens in a Session.
func (c *Client) AuthenticateWithPassword(ctx context.Context, email, password string) (*Session, error) {
	tokens, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, tokens), nil
}

// AuthenticateWithRefreshToken opens a Session from a stored refresh
// token, rotating it.
func (c *Client) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	tokens, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return newSession(c, tokens), nil
}

// NewSessionFromTokens wraps tokens obtained elsewhere.
func (c *Client) NewSessionFromTokens(accessToken, refreshToken string, expiresIn int) *Session {
	return newSession(c, &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
	})
}

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.call(ctx, http.MethodGet, "/livez", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness returns the readiness report. A degraded service answers
// 503 with the report in the body, which is returned alongside the error.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", "", nil)
	if err != nil {
		return nil, err
	}
	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK, http.StatusServiceUnavailable); err != nil {
		return nil, err
	}
	if health.Status != "ok" {
		return &health, ErrUnavailable
	}
	return &health, nil
}

func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	var jwks JWKSResponse
	if err := c.call(ctx, http.MethodGet, "/.well-known/jwks.json", "", nil, &jwks, http.StatusOK); err != nil {
		return nil, err
	}
	return &jwks, nil
}
