package http

import (
	"net/http"

	"github.com/aussiebroadwan/booking/internal/booking/service"
	"github.com/aussiebroadwan/booking/pkg/httpx"
)

// UsersHandler serves account profiles. Callers only ever see their own.
type UsersHandler struct {
	Users *service.UserService
}

// HandleGet handles GET /v1/users/me
//
//	@Summary	Get profile
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	bookingsdk.UserResponse
//	@Failure	401	{object}	bookingsdk.APIError
//	@Failure	404	{object}	bookingsdk.APIError	"user_not_found"
//	@Router		/v1/users/me [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(r)
	user, err := h.Users.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleGetByID handles GET /v1/users/{userID}
//
//	@Summary	Get user by id
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		userID	path		string	true	"User ID"
//	@Success	200		{object}	bookingsdk.UserResponse
//	@Failure	400		{object}	bookingsdk.APIError
//	@Failure	403		{object}	bookingsdk.APIError	"unauthorized"
//	@Failure	404		{object}	bookingsdk.APIError	"user_not_found"
//	@Router		/v1/users/{userID} [get].
func (h *UsersHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	user, err := h.Users.GetUser(r.Context(), userID, requireUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleUpdate handles PUT /v1/users/me
//
//	@Summary	Update profile
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		bookingsdk.UpdateProfileRequest	true	"New name and phone"
//	@Success	200		{object}	bookingsdk.UserResponse
//	@Failure	400		{object}	bookingsdk.APIError
//	@Failure	409		{object}	bookingsdk.APIError	"duplicate_phone"
//	@Router		/v1/users/me [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(r)
	var req updateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), userID, req.FullName, req.Phone)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleChangePassword handles PUT /v1/users/me/password
//
//	@Summary		Change password
//	@Description	Replaces the password and revokes the refresh token.
//	@Tags			Users
//	@Accept			json
//	@Security		BearerAuth
//	@Param			request	body	bookingsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204
//	@Failure		400	{object}	bookingsdk.APIError
//	@Failure		401	{object}	bookingsdk.APIError	"invalid_credentials"
//	@Router			/v1/users/me/password [put].
func (h *UsersHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(r)
	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.Users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /v1/users/me
//
//	@Summary		Delete account
//	@Description	Removes the account. Groups the user owns are dissolved.
//	@Tags			Users
//	@Security		BearerAuth
//	@Success		204
//	@Failure		404	{object}	bookingsdk.APIError	"user_not_found"
//	@Router			/v1/users/me [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := requireUser(r)
	if err := h.Users.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
