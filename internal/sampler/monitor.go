// internal/sampler/monitor.go
package sampler

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog/log"

	"github.com/rusenback/netspeed/internal/counters"
	"github.com/rusenback/netspeed/internal/model"
)

// DefaultInterval is the sampling period
const DefaultInterval = time.Second

// Listener receives one update per tick
type Listener func(download, upload, total uint64)

// ErrorListener is told about failed reads. Optional.
type ErrorListener func(err error)

// Monitor polls a counter source on a fixed interval and reports rates
type Monitor struct {
	reader   counters.Reader
	clock    clock.Clock
	interval time.Duration

	mu       sync.Mutex
	sampler  *Sampler
	listener Listener
	onError  ErrorListener
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// Option configures a Monitor
type Option func(*Monitor)

// WithClock replaces the wall clock, mainly for tests
func WithClock(c clock.Clock) Option {
	return func(m *Monitor) { m.clock = c }
}

// WithInterval sets the sampling period; values below 1ms are ignored
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d >= time.Millisecond {
			m.interval = d
		}
	}
}

// WithErrorListener registers a callback for read failures
func WithErrorListener(fn ErrorListener) Option {
	return func(m *Monitor) { m.onError = fn }
}

// NewMonitor creates a stopped monitor
func NewMonitor(reader counters.Reader, opts ...Option) *Monitor {
	m := &Monitor{
		reader:   reader,
		clock:    clock.New(),
		interval: DefaultInterval,
		sampler:  &Sampler{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Interval returns the sampling period
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Running reports whether the loop is active
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Start primes the sampler and begins ticking. Calling Start on a running
// monitor does nothing.
func (m *Monitor) Start(ctx context.Context, listener Listener) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.listener = listener
	m.running = true

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done
	m.sampler.Reset()
	m.mu.Unlock()

	m.prime(ctx)

	// Ticker is created before returning so that mock clocks see it
	ticker := m.clock.Ticker(m.interval)
	go m.loop(ctx, ticker, done)

	log.Info().
		Str("source", m.reader.Name()).
		Dur("interval", m.interval).
		Msg("speed monitor started")
}

// Stop cancels the ticker and drops the listener. Blocks until the loop exits.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.listener = nil
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	<-done
	log.Info().Msg("speed monitor stopped")
}

func (m *Monitor) prime(ctx context.Context) {
	sample, err := m.read(ctx)
	if err != nil {
		// next successful tick primes instead
		return
	}
	m.mu.Lock()
	m.sampler.Tick(sample)
	m.mu.Unlock()
}

func (m *Monitor) loop(ctx context.Context, ticker *clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	sample, err := m.read(ctx)
	if err != nil {
		return
	}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	rate := m.sampler.Tick(sample)
	listener := m.listener
	m.mu.Unlock()

	if listener != nil {
		listener(rate.Download, rate.Upload, rate.Total())
	}
}

func (m *Monitor) read(ctx context.Context) (model.Sample, error) {
	sample, err := m.reader.Read(ctx)
	if err != nil {
		log.Warn().Err(err).Str("source", m.reader.Name()).Msg("counter read failed")
		if m.onError != nil {
			m.onError(err)
		}
		return model.Sample{}, err
	}
	// elapsed time is measured on the monitor's clock
	sample.Timestamp = m.clock.Now()
	return sample, nil
}
