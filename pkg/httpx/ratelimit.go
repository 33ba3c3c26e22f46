package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/booking/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket refilled at RequestsPerWindow per
// Window that holds at most Burst tokens.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// RateLimits groups the profiles the router applies.
type RateLimits struct {
	// Strict guards credential endpoints against brute force.
	Strict RateLimitConfig
	// Moderate applies to authenticated writes.
	Moderate RateLimitConfig
	// Public applies to unauthenticated reads such as the JWKS.
	Public RateLimitConfig
}

// DefaultRateLimits returns the production profiles.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5},
		Moderate: RateLimitConfig{RequestsPerWindow: 60, Window: time.Minute, Burst: 30},
		Public:   RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
	}
}

// RateLimitsFromEnv applies RATELIMIT_{STRICT,MODERATE,PUBLIC}_* overrides
// on top of DefaultRateLimits.
func RateLimitsFromEnv() RateLimits {
	d := DefaultRateLimits()
	return RateLimits{
		Strict:   ParseRateLimitFromEnv("STRICT", d.Strict),
		Moderate: ParseRateLimitFromEnv("MODERATE", d.Moderate),
		Public:   ParseRateLimitFromEnv("PUBLIC", d.Public),
	}
}

// ParseRateLimitFromEnv reads RATELIMIT_{prefix}_REQUESTS,
// RATELIMIT_{prefix}_WINDOW_SEC and RATELIMIT_{prefix}_BURST. Invalid or
// non-positive values keep the default.
func ParseRateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

func positiveEnv(key string) (int, bool) {
	v, err := strconv.Atoi(os.Getenv(key))
	return v, err == nil && v > 0
}

// KeyExtractor groups requests into buckets. An empty key skips limiting.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor uses the peer address only. Forwarding headers are
// ignored because clients can set them freely.
func IPKeyExtractor(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// ProxyIPKeyExtractor prefers X-Forwarded-For, then X-Real-IP. Use it
// only behind a proxy that overwrites those headers.
func ProxyIPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return IPKeyExtractor(r)
}

// UserIDKeyExtractor keys on the authenticated user.
func UserIDKeyExtractor(r *http.Request) string {
	id, _ := UserIDFromContext(r.Context())
	return id.String()
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// JSONFieldKeyExtractor peeks at a top level string field of a JSON body
// and restores the body for the handler. Values are lower-cased so that
// "Bob@x" and "bob@x" share a bucket.
func JSONFieldKeyExtractor(field string) KeyExtractor {
	return func(r *http.Request) string {
		if r.Body == nil {
			return ""
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err != nil {
			return ""
		}

		var fields map[string]json.RawMessage
		if json.Unmarshal(body, &fields) != nil {
			return ""
		}
		var v string
		if json.Unmarshal(fields[field], &v) != nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(v))
	}
}

// rateLimiter keeps one token bucket per key.
type rateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	rl.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops idle buckets at most once every five minutes. A
// bucket that has refilled completely carries no state worth keeping.
func (rl *rateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = time.Now()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware rejects requests with 429 once the bucket for the
// request's key is empty.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	rl := &rateLimiter{
		rate:        rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:       config.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyExtractor(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			limiter := rl.getLimiter(key)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			// Ask when the next token arrives without consuming it.
			reservation := limiter.Reserve()
			retryAfter := max(int(reservation.Delay().Seconds()), 1)
			reservation.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", config.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"endpoint", r.URL.Path,
				"retry_after", retryAfter,
			)

			WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":             "rate_limit_exceeded",
				"error_description": "Too many requests. Please try again later.",
			})
		})
	}
}

// RateLimitByIP limits per client address.
func RateLimitByIP(config RateLimitConfig, ip KeyExtractor) Middleware {
	return RateLimitMiddleware(config, ip)
}

// RateLimitByUser limits per authenticated user, falling back to address.
func RateLimitByUser(config RateLimitConfig, ip KeyExtractor) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":", UserIDKeyExtractor, ip))
}

// RateLimitByIPAndJSONField limits per address and JSON body field.
func RateLimitByIPAndJSONField(config RateLimitConfig, ip KeyExtractor, field string) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":", ip, JSONFieldKeyExtractor(field)))
}
