// internal/sampler/sampler.go
package sampler

import "github.com/rusenback/netspeed/internal/model"

// Compute derives throughput between two samples.
// Elapsed time is clamped to at least 1ms. A counter that went backwards
// (reboot, interface removed) yields 0 for that direction.
func Compute(prev, cur model.Sample) model.Rate {
	elapsed := cur.TimestampMillis() - prev.TimestampMillis()
	if elapsed < 1 {
		elapsed = 1
	}

	return model.Rate{
		Download: perSecond(prev.RxBytes, cur.RxBytes, uint64(elapsed)),
		Upload:   perSecond(prev.TxBytes, cur.TxBytes, uint64(elapsed)),
	}
}

func perSecond(prev, cur, elapsedMillis uint64) uint64 {
	if cur < prev {
		return 0
	}
	return (cur - prev) * 1000 / elapsedMillis
}

// Sampler remembers the previous sample and turns each new one into a Rate
type Sampler struct {
	previous model.Sample
	primed   bool
}

// New creates a sampler primed with an initial sample
func New(initial model.Sample) *Sampler {
	return &Sampler{previous: initial, primed: true}
}

// Tick computes the rate since the previous sample and stores cur as previous.
// The first tick of an unprimed sampler only records the sample.
func (s *Sampler) Tick(cur model.Sample) model.Rate {
	if !s.primed {
		s.previous = cur
		s.primed = true
		return model.Rate{}
	}

	rate := Compute(s.previous, cur)
	s.previous = cur
	return rate
}

// Previous returns the last stored sample
func (s *Sampler) Previous() model.Sample {
	return s.previous
}

// Reset drops the stored sample so the next tick re-primes
func (s *Sampler) Reset() {
	s.previous = model.Sample{}
	s.primed = false
}
