package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/metrics"
	"github.com/aussiebroadwan/booking/internal/booking/service"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/pkg/httpx"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
	"github.com/aussiebroadwan/booking/pkg/slogx"

	_ "github.com/aussiebroadwan/booking/api/booking" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options tunes the router.
type Options struct {
	Version string

	// RateLimits defaults to httpx.DefaultRateLimits when zero.
	RateLimits httpx.RateLimits

	// ClientIP keys per-address rate limits. Defaults to the peer address.
	ClientIP httpx.KeyExtractor
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux     *http.ServeMux
	handler http.Handler

	keys      *jwtx.KeySet
	verifier  jwtx.Verifier
	store     store.Store
	metrics   *metrics.Metrics
	logger    *slog.Logger
	opts      Options
	startTime time.Time

	AuthService  *service.AuthService
	UserService  *service.UserService
	GroupService *service.GroupService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts Options,
) *Router {
	if opts.ClientIP == nil {
		opts.ClientIP = httpx.IPKeyExtractor
	}
	if opts.RateLimits == (httpx.RateLimits{}) {
		opts.RateLimits = httpx.DefaultRateLimits()
	}
	mux := http.NewServeMux()
	return &Router{
		Mux:       mux,
		handler:   httpx.Chain(mux, slogx.HTTPMiddleware(logger), MetricsMiddleware(m)),
		keys:      keys,
		verifier:  verifier,
		store:     st,
		metrics:   m,
		logger:    logger,
		opts:      opts,
		startTime: time.Now(),
	}
}

// ApplyRoutes registers every endpoint. Services must be set first.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerGroups()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

// ServeHTTP applies the global middleware chain.
//
//	@title						Booking API
//	@version					0.1.0
//	@description				Accounts, sessions and invite-code groups for the booking service.
//	@description				Access tokens are EdDSA signed JWTs; verify them with the JWKS endpoint.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// authed requires a bearer token and limits per user.
func (r *Router) authed(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(r.opts.RateLimits.Moderate, r.opts.ClientIP),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Auth: r.AuthService}
	limits, ip := r.opts.RateLimits, r.opts.ClientIP

	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister), httpx.RateLimitByIP(limits.Strict, ip)))

	// Keyed by address and email so one address cannot spray many accounts
	// and many addresses share the budget for one account.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin), httpx.RateLimitByIPAndJSONField(limits.Strict, ip, "email")))

	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh), httpx.RateLimitByIP(limits.Strict, ip)))

	r.Mux.Handle("POST /v1/auth/logout", r.authed(h.HandleLogout))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.UserService}

	r.Mux.Handle("GET /v1/users/me", r.authed(h.HandleGet))
	r.Mux.Handle("PUT /v1/users/me", r.authed(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/users/me", r.authed(h.HandleDelete))
	r.Mux.Handle("PUT /v1/users/me/password", r.authed(h.HandleChangePassword))
	r.Mux.Handle("GET /v1/users/{userID}", r.authed(h.HandleGetByID))
}

func (r *Router) registerGroups() {
	h := &GroupsHandler{Groups: r.GroupService}

	r.Mux.Handle("POST /v1/groups", r.authed(h.HandleCreate))
	r.Mux.Handle("POST /v1/groups/join", r.authed(h.HandleJoin))
	r.Mux.Handle("GET /v1/group-codes/{code}", r.authed(h.HandleGetByCode))
	r.Mux.Handle("GET /v1/groups/mine", r.authed(h.HandleMine))
	r.Mux.Handle("GET /v1/groups/owned", r.authed(h.HandleOwned))
	r.Mux.Handle("GET /v1/groups/memberships", r.authed(h.HandleMemberships))
	r.Mux.Handle("GET /v1/groups/{groupID}", r.authed(h.HandleGet))
	r.Mux.Handle("DELETE /v1/groups/{groupID}", r.authed(h.HandleDelete))
	r.Mux.Handle("POST /v1/groups/{groupID}/leave", r.authed(h.HandleLeave))
	r.Mux.Handle("GET /v1/groups/{groupID}/members", r.authed(h.HandleListMembers))
	r.Mux.Handle("POST /v1/groups/{groupID}/members", r.authed(h.HandleAddMember))
	r.Mux.Handle("PUT /v1/groups/{groupID}/members/{membershipID}/status", r.authed(h.HandleUpdateStatus))
	r.Mux.Handle("DELETE /v1/groups/{groupID}/members/{userID}", r.authed(h.HandleRemoveMember))
}

func (r *Router) registerSystem() {
	public := httpx.RateLimitByIP(r.opts.RateLimits.Public, r.opts.ClientIP)

	r.Mux.Handle("GET /.well-known/jwks.json", httpx.Chain(JWKSHandler(r.keys), public))
	r.Mux.Handle("GET /livez", httpx.Chain(LivezHandler(r.startTime, r.opts.Version), public))
	r.Mux.Handle("GET /readyz", httpx.Chain(ReadyzHandler(r.startTime, r.opts.Version, r.store, r.keys), public))

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
