package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/booking/pkg/httpx"
	"github.com/aussiebroadwan/booking/pkg/idx"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.ChainFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }, mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: "booking", NumKeys: 1})
	require.NoError(t, err)

	userID := idx.New()
	token, err := km.Sign(jwtx.NewAccessClaims(jwtx.AccessClaimsParams{
		Subject: userID.String(),
		Issuer:  "booking",
		TTL:     time.Minute,
		Now:     time.Now().UTC(),
	}))
	require.NoError(t, err)

	var seen idx.ID
	h := httpx.AuthnMiddleware(km.Verifier())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"basic", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = idx.Zero
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusUnauthorized {
				require.True(t, strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Bearer"))
				require.True(t, seen.IsZero())
			} else {
				require.Equal(t, userID, seen)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	decode := func(ct, payload string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		if ct != "" {
			req.Header.Set("Content-Type", ct)
		}
		var b body
		return httpx.DecodeJSON(httptest.NewRecorder(), req, &b)
	}

	require.NoError(t, decode("application/json", `{"name":"x"}`))
	require.NoError(t, decode("", `{"name":"x"}`))
	require.ErrorIs(t, decode("text/plain", `{"name":"x"}`), httpx.ErrBadJSON)
	require.ErrorIs(t, decode("application/json", `{"name":"x","extra":1}`), httpx.ErrBadJSON)
	require.ErrorIs(t, decode("application/json", `{"name":"x"}{}`), httpx.ErrBadJSON)
	require.ErrorIs(t, decode("application/json", `nope`), httpx.ErrBadJSON)
}
