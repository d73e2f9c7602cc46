package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/event-rsvp-bot/internal/config"
	"github.com/PratikDhanave/event-rsvp-bot/internal/dispatch"
	"github.com/PratikDhanave/event-rsvp-bot/internal/metrics"
	"github.com/PratikDhanave/event-rsvp-bot/internal/models"
)

type stubBot struct{}

func (stubBot) HandleAsync([]byte) {}

func (stubBot) Recent(context.Context, int) ([]models.LogEntry, error) {
	return []models.LogEntry{{ID: "1", Content: "Attending"}}, nil
}

func (stubBot) Reply(context.Context, string, string) dispatch.Result {
	return dispatch.Result{OK: true}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{
		"VERIFY_TOKEN": "s3cret",
		"PUBLIC_DIR":   t.TempDir(),
	})
	require.NoError(t, err)
	return cfg
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestRouter_HealthAndReady(t *testing.T) {
	r := NewRouter(testConfig(t), stubBot{}, nil, nil)

	w := get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = get(r, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}

func TestRouter_NotReadyWhenDBDown(t *testing.T) {
	db := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	r := NewRouter(testConfig(t), stubBot{}, nil, db)

	w := get(r, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"not_ready","error":"connection refused"}`, w.Body.String())
}

func TestRouter_ServesTicketsAndMetrics(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PublicDir, "ticket_1-1_1_abcd.png"), []byte("png"), 0o644))

	m := metrics.New()
	m.Inbound("attend")
	r := NewRouter(cfg, stubBot{}, m, nil)

	w := get(r, "/tickets/ticket_1-1_1_abcd.png")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())

	assert.Equal(t, http.StatusNotFound, get(r, "/tickets/missing.png").Code)

	w = get(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `rsvp_inbound_events_total{intent="attend"} 1`)
}

func TestRouter_BotRoutes(t *testing.T) {
	r := NewRouter(testConfig(t), stubBot{}, nil, nil)

	assert.Equal(t, http.StatusOK, get(r, "/webhook?hub.verify_token=s3cret&hub.challenge=7").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/webhook?hub.verify_token=x").Code)

	w := get(r, "/messages")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Attending"`)
}
