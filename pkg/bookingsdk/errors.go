package bookingsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/booking/pkg/httpx"
)

// Error codes carried in the "error" field of every failure response.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeValidation          = "validation_error"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeInvalidRefreshToken = "invalid_refresh_token"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeGroupNotFound       = "group_not_found"
	ErrorCodeUserNotFound        = "user_not_found"
	ErrorCodeNotAMember          = "not_a_member"
	ErrorCodeMembershipNotFound  = "membership_not_found"
	ErrorCodeUserAlreadyInGroup  = "user_already_in_group"
	ErrorCodeDuplicateEmail      = "duplicate_email"
	ErrorCodeDuplicatePhone      = "duplicate_phone"
	ErrorCodeInvalidStatus       = "invalid_status"
	ErrorCodeRateLimited         = "rate_limit_exceeded"
	ErrorCodeUnavailable         = "temporarily_unavailable"
	ErrorCodeServerError         = "server_error"
)

// APIError is the body of every failure response. The server writes it
// with WriteError and the client decodes it from non-2xx responses.
type APIError struct {
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`

	// Fields maps request fields to validation messages.
	Fields map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

// WithDescription returns a copy of e with a different description.
func (e *APIError) WithDescription(desc string) *APIError {
	cp := *e
	cp.Description = desc
	return &cp
}

// WithFields returns a copy of e carrying field errors.
func (e *APIError) WithFields(fields map[string]string) *APIError {
	cp := *e
	cp.Fields = fields
	return &cp
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed",
	}
	ErrValidation = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeValidation,
		Description: "one or more fields are invalid",
	}
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}
	ErrInvalidRefreshToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidRefreshToken,
		Description: "refresh token is invalid, expired or already used",
	}
	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeUnauthorized,
		Description: "not allowed to perform this action",
	}
	ErrGroupNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeGroupNotFound,
		Description: "group not found",
	}
	ErrUserNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeUserNotFound,
		Description: "user not found",
	}
	ErrNotAMember = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotAMember,
		Description: "user is not a member of this group",
	}
	ErrMembershipNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeMembershipNotFound,
		Description: "membership not found",
	}
	ErrUserAlreadyInGroup = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUserAlreadyInGroup,
		Description: "user is already a member of this group",
	}
	ErrDuplicateEmail = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicateEmail,
		Description: "email is already registered",
	}
	ErrDuplicatePhone = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicatePhone,
		Description: "phone is already registered",
	}
	ErrInvalidStatus = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidStatus,
		Description: "the group owner must stay accepted",
	}
	ErrUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeUnavailable,
		Description: "the service is temporarily unavailable",
	}
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns a failure body into an *APIError. Bodies that
// are not JSON still produce an error carrying the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = ErrorCodeServerError
		apiErr.Description = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return apiErr
}
