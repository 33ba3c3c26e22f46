package bookingsdk

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrValidation.WithFields(map[string]string{"email": "cannot be blank"}).WriteError(rec)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	err := parseErrorResponse(rec.Result(), rec.Body.Bytes())
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, ErrorCodeValidation, apiErr.Code)
	require.Equal(t, "cannot be blank", apiErr.Fields["email"])
	require.Nil(t, ErrValidation.Fields, "shared error must not be mutated")
}

func TestParseErrorResponseWithoutJSON(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusBadGateway}
	err := parseErrorResponse(resp, []byte("<html>bad gateway</html>"))

	require.True(t, IsCode(err, ErrorCodeServerError))
	require.Contains(t, err.Error(), "502")
}

func TestIsCode(t *testing.T) {
	wrapped := fmt.Errorf("join: %w", ErrGroupNotFound)
	require.True(t, IsCode(wrapped, ErrorCodeGroupNotFound))
	require.False(t, IsCode(wrapped, ErrorCodeUserNotFound))
	require.False(t, IsCode(nil, ErrorCodeGroupNotFound))
}
