package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/booking/pkg/idx"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
	"github.com/aussiebroadwan/booking/pkg/slogx"
)

// AuthnMiddleware requires a valid bearer access token and places its
// identity in the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authz := r.Header.Get("Authorization")
			scheme, raw, ok := strings.Cut(authz, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(strings.TrimSpace(raw))
			if err != nil {
				slogx.FromContext(ctx).Warn("access token rejected", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}
			if _, err := idx.Parse(claims.Subject); err != nil {
				writeBearerError(w, "invalid subject")
				return
			}

			ctx = WithClaims(ctx, claims)
			ctx = slogx.With(ctx, "user_id", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750 error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "invalid_token",
		"error_description": desc,
	})
}
