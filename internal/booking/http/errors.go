package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/booking/internal/booking/service"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/pkg/bookingsdk"
	"github.com/aussiebroadwan/booking/pkg/slogx"
	validation "github.com/go-ozzo/ozzo-validation"
)

// serviceErrors maps business failures onto their API errors.
var serviceErrors = []struct {
	err error
	api *bookingsdk.APIError
}{
	{service.ErrInvalidCredentials, bookingsdk.ErrInvalidCredentials},
	{service.ErrInvalidRefreshToken, bookingsdk.ErrInvalidRefreshToken},
	{service.ErrUnauthorized, bookingsdk.ErrUnauthorized},
	{service.ErrGroupNotFound, bookingsdk.ErrGroupNotFound},
	{service.ErrUserNotFound, bookingsdk.ErrUserNotFound},
	{service.ErrNotAMember, bookingsdk.ErrNotAMember},
	{service.ErrMembershipNotFound, bookingsdk.ErrMembershipNotFound},
	{service.ErrUserAlreadyInGroup, bookingsdk.ErrUserAlreadyInGroup},
	{service.ErrDuplicateEmail, bookingsdk.ErrDuplicateEmail},
	{service.ErrDuplicatePhone, bookingsdk.ErrDuplicatePhone},
	{service.ErrInvalidStatus, bookingsdk.ErrInvalidStatus},
}

// writeError classifies err and writes the matching APIError. Unexpected
// failures are logged here; business failures are logged by the services.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		bookingsdk.ErrValidation.WithFields(fieldErrors(verrs)).WriteError(w)
		return
	}
	if errors.Is(err, service.ErrInvalidInput) {
		bookingsdk.ErrValidation.WriteError(w)
		return
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			m.api.WriteError(w)
			return
		}
	}

	switch {
	case errors.Is(err, store.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		log.Error("storage unavailable", "error", err)
		bookingsdk.ErrUnavailable.WriteError(w)
	default:
		log.Error("unhandled service error", "error", err)
		bookingsdk.ErrServerError.WriteError(w)
	}
}

func fieldErrors(verrs validation.Errors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for name, err := range verrs {
		if err != nil {
			fields[name] = err.Error()
		}
	}
	return fields
}

// badRequest reports an unparseable body or path parameter.
func badRequest(w http.ResponseWriter, desc string) {
	bookingsdk.ErrInvalidRequest.WithDescription(desc).WriteError(w)
}
