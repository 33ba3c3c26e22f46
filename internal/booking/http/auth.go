package http

import (
	"net/http"

	"github.com/aussiebroadwan/booking/internal/booking/service"
	"github.com/aussiebroadwan/booking/pkg/bookingsdk"
	"github.com/aussiebroadwan/booking/pkg/httpx"
)

// AuthHandler serves registration, login, refresh and logout.
type AuthHandler struct {
	Auth *service.AuthService
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register
//	@Description	Creates an account. Email is matched case-insensitively and the phone number is stored in E.164 form.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		bookingsdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	bookingsdk.UserResponse
//	@Failure		400		{object}	bookingsdk.APIError	"validation_error with fields"
//	@Failure		409		{object}	bookingsdk.APIError	"duplicate_email or duplicate_phone"
//	@Failure		429		{object}	bookingsdk.APIError
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.Auth.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Phone:    req.Phone,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Login
//	@Description	Exchanges email and password for an access token and a refresh token.
//	@Description	Logging in again invalidates any refresh token issued earlier.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		bookingsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	bookingsdk.TokenResponse
//	@Failure		400		{object}	bookingsdk.APIError
//	@Failure		401		{object}	bookingsdk.APIError	"invalid_credentials"
//	@Failure		429		{object}	bookingsdk.APIError
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.Auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Refresh
//	@Description	Rotates a refresh token. The presented token is invalid afterwards, even if the response is lost.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		bookingsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	bookingsdk.TokenResponse
//	@Failure		401		{object}	bookingsdk.APIError	"invalid_refresh_token"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTokenResponse(pair))
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Logout
//	@Description	Revokes the caller's refresh token. Idempotent.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	bookingsdk.APIError
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		bookingsdk.ErrUnauthorized.WriteError(w)
		return
	}
	if err := h.Auth.Logout(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
