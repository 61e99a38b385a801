package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"summit-scheduler/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthzReportsEveryCheck(t *testing.T) {
	e := NewEcho(map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestHealthzOK(t *testing.T) {
	e := NewEcho(nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpointExposesCollectors(t *testing.T) {
	e := NewEcho(nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "summit_http_request_duration_seconds")
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	e := NewEcho(nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestEventServiceConfigConvertsUnits(t *testing.T) {
	cfg := &config.Config{Scheduling: config.SchedulingConfig{
		ActivityDurationMinutes: 90,
		BreakMinutes:            15,
		MaxEventHours:           24,
		SlotCacheTTLSeconds:     300,
	}}

	got := EventServiceConfig(cfg)

	assert.Equal(t, 90*time.Minute, got.ActivityDuration)
	assert.Equal(t, 15*time.Minute, got.BreakDuration)
	assert.Equal(t, 24*time.Hour, got.MaxEventDuration)
	assert.Equal(t, 5*time.Minute, got.SlotCacheTTL)
}
