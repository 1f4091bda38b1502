package sampler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusenback/netspeed/internal/model"
)

// stepReader adds a fixed amount to its counters on every read
type stepReader struct {
	mu     sync.Mutex
	rx, tx uint64
	stepRx uint64
	stepTx uint64
	failAt int
	reads  int
}

func (r *stepReader) Read(ctx context.Context) (model.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.failAt > 0 && r.reads == r.failAt {
		return model.Sample{}, errors.New("read failed")
	}
	s := model.Sample{RxBytes: r.rx, TxBytes: r.tx}
	r.rx += r.stepRx
	r.tx += r.stepTx
	return s, nil
}

func (r *stepReader) Name() string { return "step" }
func (r *stepReader) Close() error { return nil }

type update struct{ down, up, total uint64 }

func collect(ch chan update) Listener {
	return func(down, up, total uint64) {
		ch <- update{down, up, total}
	}
}

func next(t *testing.T, ch chan update) update {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("no update received")
		return update{}
	}
}

func TestMonitor_EmitsRatePerTick(t *testing.T) {
	mock := clock.NewMock()
	reader := &stepReader{stepRx: 2048, stepTx: 1024}
	m := NewMonitor(reader, WithClock(mock))

	updates := make(chan update, 4)
	m.Start(context.Background(), collect(updates))
	defer m.Stop()
	assert.True(t, m.Running())

	mock.Add(time.Second)
	assert.Equal(t, update{2048, 1024, 3072}, next(t, updates))

	mock.Add(time.Second)
	assert.Equal(t, update{2048, 1024, 3072}, next(t, updates))
}

func TestMonitor_StartTwiceIsNoop(t *testing.T) {
	mock := clock.NewMock()
	reader := &stepReader{stepRx: 1}
	m := NewMonitor(reader, WithClock(mock))

	m.Start(context.Background(), func(uint64, uint64, uint64) {})
	m.Start(context.Background(), func(uint64, uint64, uint64) {})
	defer m.Stop()

	reader.mu.Lock()
	assert.Equal(t, 1, reader.reads, "second Start must not prime again")
	reader.mu.Unlock()
}

func TestMonitor_StopEndsUpdates(t *testing.T) {
	mock := clock.NewMock()
	reader := &stepReader{stepRx: 1000}
	m := NewMonitor(reader, WithClock(mock))

	updates := make(chan update, 4)
	m.Start(context.Background(), collect(updates))
	mock.Add(time.Second)
	next(t, updates)

	m.Stop()
	assert.False(t, m.Running())

	mock.Add(5 * time.Second)
	select {
	case u := <-updates:
		t.Fatalf("unexpected update after stop: %+v", u)
	case <-time.After(50 * time.Millisecond):
	}

	// Stop on a stopped monitor is fine
	m.Stop()
}

func TestMonitor_ReadErrorSkipsTick(t *testing.T) {
	mock := clock.NewMock()
	// reads: 1 prime, 2 fails, 3 ok
	reader := &stepReader{stepRx: 1024, failAt: 2}

	errs := make(chan error, 1)
	m := NewMonitor(reader, WithClock(mock), WithErrorListener(func(err error) {
		errs <- err
	}))

	updates := make(chan update, 4)
	m.Start(context.Background(), collect(updates))
	defer m.Stop()

	mock.Add(time.Second)
	select {
	case err := <-errs:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("read error not reported")
	}

	mock.Add(time.Second)
	u := next(t, updates)
	// previous sample kept across the failed read: 1024 bytes over 2s
	assert.Equal(t, uint64(512), u.down)
}

func TestMonitor_Interval(t *testing.T) {
	m := NewMonitor(&stepReader{}, WithInterval(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, m.Interval())

	m = NewMonitor(&stepReader{}, WithInterval(0))
	assert.Equal(t, DefaultInterval, m.Interval())
}
