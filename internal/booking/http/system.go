package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/pkg/bookingsdk"
	"github.com/aussiebroadwan/booking/pkg/httpx"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is serving.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	bookingsdk.HealthResponse
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, bookingsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database connection and that signing keys are loaded.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	bookingsdk.HealthResponse
//	@Failure		503	{object}	bookingsdk.HealthResponse
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &bookingsdk.HealthChecks{Database: "ok", Signer: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}
		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, bookingsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

// JWKSHandler exposes the public keys that verify access tokens.
//
//	@Summary	Get JWKS
//	@Tags		well-known
//	@Produce	json
//	@Success	200	{object}	bookingsdk.JWKSResponse
//	@Router		/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, bookingsdk.JWKSResponse(keys.PublicJWKS()))
	}
}
