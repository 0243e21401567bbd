package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Domenick1991/flightapp/config"
	"github.com/Domenick1991/flightapp/internal/metrics"
	"github.com/Domenick1991/flightapp/internal/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHTTPHandler_Health(t *testing.T) {
	healthy := true
	deps := Deps{
		Sessions: session.NewRegistry(),
		Health: func(context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("postgres unreachable")
		},
	}
	h, err := newHTTPHandler(config.HTTPConfig{}, deps)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(t, h, "/healthz").Code)
	healthy = false
	assert.Equal(t, http.StatusServiceUnavailable, serve(t, h, "/healthz").Code)
}

func TestHTTPHandler_MetricsAndAPI(t *testing.T) {
	h, err := newHTTPHandler(config.HTTPConfig{}, Deps{Sessions: session.NewRegistry()})
	require.NoError(t, err)

	w := serve(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "flightapp_session_active")

	// Routed to gin; rejected by the session middleware.
	assert.Equal(t, http.StatusBadRequest, serve(t, h, "/api/v1/reservations").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, h, "/docs/index.html").Code)
}

func TestHTTPHandler_Docs(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "flightapp.swagger.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"swagger":"2.0"}`), 0o600))

	h, err := newHTTPHandler(config.HTTPConfig{SwaggerFile: doc}, Deps{Sessions: session.NewRegistry()})
	require.NoError(t, err)

	w := serve(t, h, "/swagger/flightapp.swagger.json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"swagger":"2.0"}`, w.Body.String())
	assert.Equal(t, http.StatusOK, serve(t, h, "/docs/index.html").Code)
}

func TestSweepSessions(t *testing.T) {
	registry := session.NewRegistry()
	registry.Open()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		SweepSessions(ctx, registry, 0, time.Millisecond, zap.NewNop())
		close(done)
	}()

	require.Eventually(t, func() bool { return registry.Len() == 0 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return testutil.ToFloat64(metrics.ActiveSessions) == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
