package sampler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rusenback/netspeed/internal/model"
)

func at(ms int64, rx, tx uint64) model.Sample {
	return model.Sample{RxBytes: rx, TxBytes: tx, Timestamp: time.UnixMilli(ms)}
}

func TestCompute_OneSecond(t *testing.T) {
	rate := Compute(at(0, 0, 0), at(1000, 2048, 1024))
	assert.Equal(t, uint64(2048), rate.Download)
	assert.Equal(t, uint64(1024), rate.Upload)
	assert.Equal(t, uint64(3072), rate.Total())
}

func TestCompute_HalfSecond(t *testing.T) {
	rate := Compute(at(0, 0, 0), at(500, 1000, 0))
	assert.Equal(t, uint64(2000), rate.Download)
	assert.Equal(t, uint64(0), rate.Upload)
}

func TestCompute_ZeroElapsedClampsDivisor(t *testing.T) {
	var rate model.Rate
	assert.NotPanics(t, func() {
		rate = Compute(at(1000, 0, 0), at(1000, 3, 1))
	})
	// divisor clamped to 1ms
	assert.Equal(t, uint64(3000), rate.Download)
	assert.Equal(t, uint64(1000), rate.Upload)
}

func TestCompute_ClockStepBackwards(t *testing.T) {
	rate := Compute(at(5000, 0, 0), at(4000, 10, 10))
	assert.Equal(t, uint64(10000), rate.Download)
}

func TestCompute_CounterReset(t *testing.T) {
	rate := Compute(at(0, 1<<40, 500), at(1000, 100, 1524))
	assert.Equal(t, uint64(0), rate.Download)
	assert.Equal(t, uint64(1024), rate.Upload)
}

func TestSampler_TickStoresPrevious(t *testing.T) {
	s := New(at(0, 0, 0))

	r1 := s.Tick(at(1000, 2048, 1024))
	assert.Equal(t, model.Rate{Download: 2048, Upload: 1024}, r1)
	assert.Equal(t, at(1000, 2048, 1024), s.Previous())

	r2 := s.Tick(at(2000, 2048, 1024))
	assert.Equal(t, model.Rate{}, r2)
}

func TestSampler_UnprimedFirstTick(t *testing.T) {
	s := &Sampler{}
	assert.Equal(t, model.Rate{}, s.Tick(at(1000, 1<<30, 1<<30)))

	r := s.Tick(at(2000, 1<<30+1024, 1<<30))
	assert.Equal(t, uint64(1024), r.Download)

	s.Reset()
	assert.Equal(t, model.Rate{}, s.Tick(at(3000, 0, 0)))
}

func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B/s"},
		{1, "1.0 B/s"},
		{500, "500.0 B/s"},
		{1023, "1023.0 B/s"},
		{1024, "1.0 KB/s"},
		{1536, "1.5 KB/s"},
		{1048576, "1.0 MB/s"},
		{5 * 1024 * 1024 * 1024, "5.0 GB/s"},
		{2048 * 1024 * 1024 * 1024, "2048.0 GB/s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSpeed(tt.in), "FormatSpeed(%d)", tt.in)
	}
}
