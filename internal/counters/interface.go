// internal/counters/interface.go
package counters

import (
	"context"

	"github.com/rusenback/netspeed/internal/model"
)

// Reader supplies cumulative traffic counters. Implementations are mockable
// so the sampler can be tested without a network stack.
type Reader interface {
	Read(ctx context.Context) (model.Sample, error)
	Name() string
	Close() error
}

// Make sure the readers implement the interface
var (
	_ Reader = (*HostReader)(nil)
	_ Reader = (*ContainerReader)(nil)
)
