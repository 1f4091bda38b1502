// Package metrics exposes the live throughput for scraping.
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Exporter holds the gauges and the health flags
type Exporter struct {
	registry *prometheus.Registry
	download prometheus.Gauge
	upload   prometheus.Gauge
	samples  prometheus.Counter
	failures prometheus.Counter

	running    atomic.Bool
	lastReadOk atomic.Bool

	server *http.Server
}

// NewExporter registers the collectors on a private registry
func NewExporter(source string) *Exporter {
	labels := prometheus.Labels{"source": source}
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		download: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "netspeed_download_bytes_per_second",
			Help:        "Download throughput measured over the last sampling interval.",
			ConstLabels: labels,
		}),
		upload: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "netspeed_upload_bytes_per_second",
			Help:        "Upload throughput measured over the last sampling interval.",
			ConstLabels: labels,
		}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "netspeed_samples_total",
			Help:        "Number of rate samples taken.",
			ConstLabels: labels,
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "netspeed_read_failures_total",
			Help:        "Number of failed counter reads.",
			ConstLabels: labels,
		}),
	}
	e.registry.MustRegister(e.download, e.upload, e.samples, e.failures)
	return e
}

// Observe records one rate sample
func (e *Exporter) Observe(download, upload uint64) {
	e.download.Set(float64(download))
	e.upload.Set(float64(upload))
	e.samples.Inc()
	e.lastReadOk.Store(true)
}

// ObserveError records a failed counter read
func (e *Exporter) ObserveError(error) {
	e.failures.Inc()
	e.lastReadOk.Store(false)
}

// SetRunning flips the running flag reported by /health
func (e *Exporter) SetRunning(ok bool) {
	e.running.Store(ok)
}

// Handler returns the mux serving /metrics and /health
func (e *Exporter) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", e.handleHealth)
	return mux
}

// Serve listens on addr until Shutdown is called
func (e *Exporter) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	e.server = &http.Server{
		Handler:           e.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := e.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	log.Info().Str("addr", ln.Addr().String()).Msg("metrics server listening")
	return nil
}

// Shutdown stops the HTTP server
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e.server == nil {
		return nil
	}
	return e.server.Shutdown(ctx)
}

func (e *Exporter) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"running":        e.running.Load(),
		"last_sample_ok": e.lastReadOk.Load(),
	}
	w.Header().Set("Content-Type", "application/json")
	if !e.running.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Debug().Err(err).Msg("write health response")
	}
}
