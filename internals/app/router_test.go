package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"probe-wizard/config"
	middle "probe-wizard/internals/middleware"
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/security"
	"probe-wizard/pkg/metrics"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRouterContainer wires only what the routes below touch; no database or redis is needed.
func newRouterContainer() *Container {
	logger := zerolog.New(io.Discard)
	return &Container{
		Config: &config.Config{
			Server:  config.ServerConfig{RequestTimeout: 5 * time.Second},
			Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		},
		Logger:  &logger,
		Metrics: metrics.New("router_test"),
		sessionMW: middle.NewSessionMiddleware(security.NewTokenService(&config.SessionConfig{
			Secret: "router-test-secret-value",
			TTL:    time.Hour,
		})),
		notificationHandler: notification.NewHandler(),
	}
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRegisterRoutes(t *testing.T) {
	srv := httptest.NewServer(RegisterRoutes(newRouterContainer()))
	defer srv.Close()

	resp, _ := get(t, srv, "/api/v1/notification-forms")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))

	resp, body := get(t, srv, "/api/v1/wizard/web-form")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "unauthorised")

	resp, body = get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `router_test_http_requests_total{method="GET",route="/api/v1/notification-forms`)
}

func TestMetricsRouteCanBeDisabled(t *testing.T) {
	c := newRouterContainer()
	c.Config.Metrics.Enabled = false

	srv := httptest.NewServer(RegisterRoutes(c))
	defer srv.Close()

	resp, _ := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
