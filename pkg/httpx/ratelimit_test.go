package httpx_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/booking/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")

	t.Run("ignores forwarding headers", func(t *testing.T) {
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("proxy extractor prefers X-Forwarded-For", func(t *testing.T) {
		require.Equal(t, "203.0.113.1", httpx.ProxyIPKeyExtractor(req))
	})

	t.Run("proxy extractor falls back to X-Real-IP", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.168.1.1:12345"
		r.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.ProxyIPKeyExtractor(r))
	})
}

func TestJSONFieldKeyExtractor(t *testing.T) {
	extract := httpx.JSONFieldKeyExtractor("email")

	t.Run("reads and restores body", func(t *testing.T) {
		body := `{"email":"  Bob@Example.com ","password":"x"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

		require.Equal(t, "bob@example.com", extract(req))

		rest, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.Equal(t, body, string(rest))
	})

	t.Run("missing field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":1}`))
		require.Equal(t, "", extract(req))
	})

	t.Run("not json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`email=bob`))
		require.Equal(t, "", extract(req))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"alice@x.io"}`))
	req.RemoteAddr = "192.168.1.1:12345"

	key := httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.JSONFieldKeyExtractor("email"))(req)
	require.Equal(t, "192.168.1.1:alice@x.io", key)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.RemoteAddr = "192.168.1.1:12345"
	key = httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.JSONFieldKeyExtractor("email"))(req)
	require.Equal(t, "192.168.1.1", key)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}

	t.Run("blocks requests over limit", func(t *testing.T) {
		h := httpx.RateLimitByIP(config, httpx.IPKeyExtractor)(okHandler())

		for i := range 3 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.1:1"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	})

	t.Run("separate keys have separate buckets", func(t *testing.T) {
		h := httpx.RateLimitByIP(config, httpx.IPKeyExtractor)(okHandler())

		for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
			for range 3 {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.RemoteAddr = addr
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				require.Equal(t, http.StatusOK, rec.Code)
			}
		}
	})

	t.Run("empty key is not limited", func(t *testing.T) {
		h := httpx.RateLimitMiddleware(config, func(*http.Request) string { return "" })(okHandler())
		for range 10 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TEST_REQUESTS", "50")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "10")
	t.Setenv("RATELIMIT_TEST_BURST", "-1")

	def := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 7}
	got := httpx.ParseRateLimitFromEnv("TEST", def)

	require.Equal(t, 50, got.RequestsPerWindow)
	require.Equal(t, 10*time.Second, got.Window)
	require.Equal(t, 7, got.Burst)
}
