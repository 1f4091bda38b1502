// Package service runs the speed monitor in the background and fans every
// update out to history, metrics and the UI.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rusenback/netspeed/internal/model"
	"github.com/rusenback/netspeed/internal/sampler"
	"github.com/rusenback/netspeed/internal/storage"
)

// HistoryWriter persists rate samples
type HistoryWriter interface {
	Write(entry *storage.SpeedEntry)
}

// Observer receives rates and read errors, e.g. the metrics exporter
type Observer interface {
	Observe(download, upload uint64)
	ObserveError(err error)
	SetRunning(ok bool)
}

// SettingsSource supplies settings and change notifications
type SettingsSource interface {
	Get() model.Settings
	Subscribe() (<-chan model.Settings, func())
}

// Runner is the subset of sampler.Monitor the service drives
type Runner interface {
	Start(ctx context.Context, listener sampler.Listener)
	Stop()
	Running() bool
}

var _ Runner = (*sampler.Monitor)(nil)

// Service starts and stops the monitor following the enabled setting
type Service struct {
	monitor  Runner
	settings SettingsSource
	history  HistoryWriter
	observer Observer
	now      func() time.Time

	rates  chan model.Rate
	errors chan error

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Options are the optional sinks of a Service
type Options struct {
	History  HistoryWriter
	Observer Observer
}

// New creates a stopped service
func New(monitor Runner, settings SettingsSource, opts Options) *Service {
	return &Service{
		monitor:  monitor,
		settings: settings,
		history:  opts.History,
		observer: opts.Observer,
		now:      time.Now,
		rates:    make(chan model.Rate, 1),
		errors:   make(chan error, 1),
	}
}

// Rates delivers the newest rate; stale values are replaced
func (s *Service) Rates() <-chan model.Rate {
	return s.rates
}

// Errors delivers counter read failures
func (s *Service) Errors() <-chan error {
	return s.errors
}

// ReportError forwards a read failure to the observer and the UI.
// Pass it to sampler.WithErrorListener.
func (s *Service) ReportError(err error) {
	if s.observer != nil {
		s.observer.ObserveError(err)
	}
	publish(s.errors, err)
}

// Start begins sampling if enabled and follows settings changes until Stop
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	updates, unsubscribe := s.settings.Subscribe()
	s.apply(s.settings.Get())

	go func() {
		defer close(s.done)
		defer unsubscribe()
		for {
			select {
			case <-s.ctx.Done():
				return
			case st, ok := <-updates:
				if !ok {
					return
				}
				s.apply(st)
			}
		}
	}()
}

// Stop halts sampling and the settings watcher
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.monitor.Stop()
	if s.observer != nil {
		s.observer.SetRunning(false)
	}
}

func (s *Service) apply(st model.Settings) {
	switch {
	case st.Enabled && !s.monitor.Running():
		s.monitor.Start(s.ctx, s.onUpdate)
		if s.observer != nil {
			s.observer.SetRunning(true)
		}
		log.Info().Msg("sampling enabled")
	case !st.Enabled && s.monitor.Running():
		s.monitor.Stop()
		if s.observer != nil {
			s.observer.SetRunning(false)
		}
		log.Info().Msg("sampling disabled")
	}
}

func (s *Service) onUpdate(download, upload, total uint64) {
	rate := model.Rate{Download: download, Upload: upload}

	if s.history != nil {
		s.history.Write(&storage.SpeedEntry{
			Timestamp: s.now(),
			Download:  download,
			Upload:    upload,
		})
	}
	if s.observer != nil {
		s.observer.Observe(download, upload)
	}

	log.Debug().
		Uint64("download", download).
		Uint64("upload", upload).
		Uint64("total", total).
		Msg("rate sampled")

	publish(s.rates, rate)
}

// publish replaces any unread value so the reader always sees the latest
func publish[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
