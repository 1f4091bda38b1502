package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusenback/netspeed/internal/model"
	"github.com/rusenback/netspeed/internal/sampler"
	"github.com/rusenback/netspeed/internal/storage"
)

type countingReader struct {
	mu sync.Mutex
	rx uint64
}

func (r *countingReader) Read(ctx context.Context) (model.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := model.Sample{RxBytes: r.rx, TxBytes: r.rx / 2}
	r.rx += 4096
	return s, nil
}

func (r *countingReader) Name() string { return "counting" }
func (r *countingReader) Close() error { return nil }

type fakeSettings struct {
	mu      sync.Mutex
	current model.Settings
	subs    []chan model.Settings
}

func (f *fakeSettings) Get() model.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeSettings) Subscribe() (<-chan model.Settings, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan model.Settings, 1)
	f.subs = append(f.subs, ch)
	return ch, func() {}
}

func (f *fakeSettings) set(st model.Settings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = st
	for _, ch := range f.subs {
		ch <- st
	}
}

type recorder struct {
	mu      sync.Mutex
	entries []*storage.SpeedEntry
	rates   [][2]uint64
	errs    []error
	running bool
}

func (r *recorder) Write(e *storage.SpeedEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recorder) Observe(down, up uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates = append(r.rates, [2]uint64{down, up})
}

func (r *recorder) ObserveError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) SetRunning(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = ok
}

func (r *recorder) isRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func setup(enabled bool) (*Service, *sampler.Monitor, *clock.Mock, *fakeSettings, *recorder) {
	mock := clock.NewMock()
	monitor := sampler.NewMonitor(&countingReader{}, sampler.WithClock(mock))
	st := model.DefaultSettings()
	st.Enabled = enabled
	fs := &fakeSettings{current: st}
	rec := &recorder{}
	svc := New(monitor, fs, Options{History: rec, Observer: rec})
	return svc, monitor, mock, fs, rec
}

func TestService_FansOutRates(t *testing.T) {
	svc, monitor, mock, _, rec := setup(true)
	svc.Start(context.Background())
	defer svc.Stop()

	require.True(t, monitor.Running())
	assert.True(t, rec.isRunning())

	mock.Add(time.Second)

	select {
	case rate := <-svc.Rates():
		assert.Equal(t, model.Rate{Download: 4096, Upload: 2048}, rate)
	case <-time.After(2 * time.Second):
		t.Fatal("no rate published")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.entries, 1)
	assert.Equal(t, uint64(4096), rec.entries[0].Download)
	assert.Equal(t, [][2]uint64{{4096, 2048}}, rec.rates)
}

func TestService_DisabledDoesNotSample(t *testing.T) {
	svc, monitor, _, _, rec := setup(false)
	svc.Start(context.Background())
	defer svc.Stop()

	assert.False(t, monitor.Running())
	assert.False(t, rec.isRunning())
}

func TestService_FollowsEnabledSetting(t *testing.T) {
	svc, monitor, _, fs, _ := setup(true)
	svc.Start(context.Background())
	defer svc.Stop()

	st := fs.Get()
	st.Enabled = false
	fs.set(st)
	assert.Eventually(t, func() bool { return !monitor.Running() }, 2*time.Second, 10*time.Millisecond)

	st.Enabled = true
	fs.set(st)
	assert.Eventually(t, monitor.Running, 2*time.Second, 10*time.Millisecond)
}

func TestService_StopStopsMonitor(t *testing.T) {
	svc, monitor, _, _, rec := setup(true)
	svc.Start(context.Background())
	svc.Stop()

	assert.False(t, monitor.Running())
	assert.False(t, rec.isRunning())

	// second Stop is a no-op
	svc.Stop()
}

func TestService_ReportError(t *testing.T) {
	svc, _, _, _, rec := setup(true)
	svc.ReportError(assert.AnError)

	select {
	case err := <-svc.Errors():
		assert.ErrorIs(t, err, assert.AnError)
	default:
		t.Fatal("error not published")
	}
	rec.mu.Lock()
	assert.Len(t, rec.errs, 1)
	rec.mu.Unlock()
}

func TestPublishKeepsLatest(t *testing.T) {
	ch := make(chan int, 1)
	publish(ch, 1)
	publish(ch, 2)
	assert.Equal(t, 2, <-ch)
}
