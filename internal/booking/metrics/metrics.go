// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Every recording method is safe to call on a nil *Metrics so services and
// tests can run without a registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booking"

// Outcome labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	logins        *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
	tokensCleared prometheus.Counter
	housekeeping  *prometheus.CounterVec

	groupsCreated  prometheus.Counter
	codeCollisions prometheus.Counter
	memberships    *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers the booking collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "refreshes_total",
			Help:      "Refresh token exchanges by result.",
		}, []string{"result"}),
		tokensCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "expired_refresh_tokens_cleared_total",
			Help:      "Expired refresh tokens removed by the cleanup sweep.",
		}),
		housekeeping: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "housekeeping_runs_total",
			Help:      "Housekeeping runs by result.",
		}, []string{"result"}),
		groupsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "groups",
			Name:      "created_total",
			Help:      "Groups created.",
		}),
		codeCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "groups",
			Name:      "code_collisions_total",
			Help:      "Generated invitation codes that were already taken.",
		}),
		memberships: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "groups",
			Name:      "membership_changes_total",
			Help:      "Membership mutations by action.",
		}, []string{"action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.logins, m.refreshes, m.tokensCleared, m.housekeeping,
		m.groupsCreated, m.codeCollisions, m.memberships,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) Refresh(result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) TokensCleared(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensCleared.Add(float64(n))
}

func (m *Metrics) HousekeepingRun(result string) {
	if m == nil {
		return
	}
	m.housekeeping.WithLabelValues(result).Inc()
}

func (m *Metrics) GroupCreated() {
	if m == nil {
		return
	}
	m.groupsCreated.Inc()
}

func (m *Metrics) CodeCollision() {
	if m == nil {
		return
	}
	m.codeCollisions.Inc()
}

// MembershipChanged counts a membership mutation, labelled with the
// domain action name.
func (m *Metrics) MembershipChanged(action string) {
	if m == nil {
		return
	}
	m.memberships.WithLabelValues(action).Inc()
}

// ObserveHTTP records one finished request. route is the ServeMux pattern,
// never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
