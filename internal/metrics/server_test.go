package metrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_Observe(t *testing.T) {
	e := NewExporter("host")
	e.Observe(2048, 1024)
	e.Observe(4096, 512)

	assert.Equal(t, 4096.0, testutil.ToFloat64(e.download))
	assert.Equal(t, 512.0, testutil.ToFloat64(e.upload))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.samples))

	e.ObserveError(errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.failures))
}

func TestExporter_MetricsEndpoint(t *testing.T) {
	e := NewExporter("host")
	e.Observe(1536, 0)

	srv := httptest.NewServer(e.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `netspeed_download_bytes_per_second{source="host"} 1536`)
}

func TestExporter_Health(t *testing.T) {
	e := NewExporter("host")
	srv := httptest.NewServer(e.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	e.SetRunning(true)
	e.Observe(1, 1)

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.True(t, health["running"])
	assert.True(t, health["last_sample_ok"])
}

// brokenWriter fails every body write, like a client that hung up
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestExporter_HealthWriteErrorLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = prev })

	e := NewExporter("host")
	e.SetRunning(true)

	w := brokenWriter{httptest.NewRecorder()}
	e.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "write health response")
	assert.Contains(t, buf.String(), "connection reset")
}
