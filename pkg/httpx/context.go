package httpx

import (
	"context"

	"github.com/aussiebroadwan/booking/pkg/idx"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
)

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

// WithClaims stores the verified token subject in ctx.
func WithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, idx.ID(c.Subject))
}

// UserIDFromContext returns the authenticated user. It is only set by
// AuthnMiddleware, never from request input.
func UserIDFromContext(ctx context.Context) (idx.ID, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(idx.ID)
	return id, ok && !id.IsZero()
}
