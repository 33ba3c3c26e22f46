package http_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	bookinghttp "github.com/aussiebroadwan/booking/internal/booking/http"
	"github.com/aussiebroadwan/booking/internal/booking/metrics"
	"github.com/aussiebroadwan/booking/internal/booking/service"
	"github.com/aussiebroadwan/booking/internal/booking/store/drivers/sqlite"
	"github.com/aussiebroadwan/booking/pkg/bookingsdk"
	"github.com/aussiebroadwan/booking/pkg/cryptox"
	"github.com/aussiebroadwan/booking/pkg/httpx"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
	"github.com/aussiebroadwan/booking/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://booking.test"
	testPassword = "correct horse battery"
)

type server struct {
	url     string
	store   *sqlite.Store
	metrics *metrics.Metrics
	client  *bookingsdk.Client
}

func generousLimits() httpx.RateLimits {
	l := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	return httpx.RateLimits{Strict: l, Moderate: l, Public: l}
}

func newServer(t *testing.T, limits httpx.RateLimits) *server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   testIssuer,
		Audience: []string{"booking"},
		NumKeys:  2,
	})
	require.NoError(t, err)

	hasher := &cryptox.Argon2Hasher{
		Params: cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 16, SaltLength: 8},
		Pepper: "test-pepper",
	}
	m := metrics.New()

	router := bookinghttp.NewRouter(km.KeySet(), km.Verifier(), st, m, slogx.Discard(), bookinghttp.Options{
		Version:    "test",
		RateLimits: limits,
	})
	router.AuthService = &service.AuthService{
		Store:  st,
		Hasher: hasher,
		Tokens: &service.TokenIssuer{
			Signer:     km,
			Issuer:     testIssuer,
			Audience:   []string{"booking"},
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
		Metrics:     m,
		PhoneRegion: "VN",
	}
	router.UserService = &service.UserService{Store: st, Hasher: hasher, PhoneRegion: "VN"}
	router.GroupService = &service.GroupService{Store: st, Metrics: m}
	router.ApplyRoutes()

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &server{url: ts.URL, store: st, metrics: m, client: bookingsdk.NewClient(ts.URL)}
}

// signup registers name@example.com and returns a logged in session.
func (s *server) signup(t *testing.T, name, phone string) (*bookingsdk.UserResponse, *bookingsdk.Session) {
	t.Helper()
	ctx := context.Background()

	user, err := s.client.Register(ctx, bookingsdk.RegisterRequest{
		Email:    name + "@example.com",
		Phone:    phone,
		FullName: name,
		Password: testPassword,
	})
	require.NoError(t, err)

	session, err := s.client.AuthenticateWithPassword(ctx, user.Email, testPassword)
	require.NoError(t, err)
	return user, session
}

func requireCode(t *testing.T, err error, status int, code string) *bookingsdk.APIError {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*bookingsdk.APIError)
	require.True(t, ok, "want *APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}
