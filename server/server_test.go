package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/riskgate/pipeline"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/trade"
)

func newTestServer(t *testing.T) (*Server, *pipeline.Pipeline) {
	t.Helper()
	pl := pipeline.New(pipeline.Options{Limits: risk.DefaultLimits()})
	return New(DefaultConfig(), pl), pl
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)

	var body map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	w, body := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "running", body["status"])
}

func TestSessionState(t *testing.T) {
	t.Parallel()

	s, pl := newTestServer(t)
	require.NoError(t, pl.SeedSession("live", 95000, 105000))

	w, body := get(t, s, "/api/sessions/live/state")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 95000.0, body["cash"])
	assert.Equal(t, 105000.0, body["peak_value"])

	w, body = get(t, s, "/api/sessions/nope/state")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "unknown session", body["error"])
}

func TestBuyingPowerEndpoint(t *testing.T) {
	t.Parallel()

	s, pl := newTestServer(t)
	require.NoError(t, pl.SeedSession("live", 95000, 0))

	w, body := get(t, s, "/api/sessions/live/buying-power")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 95000.0, body["buying_power"])
}

func TestModeEndpoint(t *testing.T) {
	t.Parallel()

	s, pl := newTestServer(t)
	_, err := pl.SubmitSignal(context.Background(), trade.Signal{
		StrategyID: "live", Symbol: "SPY", Action: trade.Buy, Quantity: 10, Price: 100,
	})
	require.NoError(t, err)

	w, body := get(t, s, "/api/sessions/live/mode")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(risk.Normal), body["mode"])
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientQueryBuyingPower(t *testing.T) {
	t.Parallel()

	s, pl := newTestServer(t)
	require.NoError(t, pl.SeedSession("live", 42000, 0))

	ts := httptest.NewServer(s.srv.Handler)
	defer ts.Close()

	c := NewClient(ts.URL)
	bp, err := c.QueryBuyingPower(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, 42000.0, bp)
}

func TestClientUnknownSession(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.srv.Handler)
	defer ts.Close()

	_, err := NewClient(ts.URL).QueryBuyingPower(context.Background(), "nope")
	assert.Error(t, err)
}
