package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Login(ResultSuccess)
		m.Refresh(ResultFailure)
		m.TokensCleared(3)
		m.HousekeepingRun(ResultError)
		m.GroupCreated()
		m.CodeCollision()
		m.MembershipChanged("leave")
		m.ObserveHTTP("GET", "/livez", 200, time.Millisecond)
	})
}

func TestCounters(t *testing.T) {
	m := New()

	m.Login(ResultSuccess)
	m.Login(ResultSuccess)
	m.Login(ResultFailure)
	require.Equal(t, 2.0, testutil.ToFloat64(m.logins.WithLabelValues(ResultSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues(ResultFailure)))

	m.TokensCleared(5)
	m.TokensCleared(0)
	require.Equal(t, 5.0, testutil.ToFloat64(m.tokensCleared))

	m.CodeCollision()
	require.Equal(t, 1.0, testutil.ToFloat64(m.codeCollisions))
}

func TestHandlerExposesBookingMetrics(t *testing.T) {
	m := New()
	m.GroupCreated()
	m.ObserveHTTP(http.MethodPost, "POST /v1/groups", http.StatusCreated, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "booking_groups_created_total 1")
	require.True(t, strings.Contains(body, `booking_http_requests_total{code="201",method="POST",route="POST /v1/groups"} 1`))
	require.Contains(t, body, "go_goroutines")
}
