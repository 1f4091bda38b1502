// internal/counters/open.go
package counters

import (
	"context"
	"fmt"
)

// Source kinds
const (
	KindHost      = "host"
	KindContainer = "container"
)

// Options selects and configures a counter source
type Options struct {
	Kind            string
	Interfaces      []string
	IncludeLoopback bool
	Container       string
	Docker          DockerConfig
}

// Open creates the reader described by opts
func Open(ctx context.Context, opts Options) (Reader, error) {
	switch opts.Kind {
	case "", KindHost:
		return NewHostReader(opts.Interfaces, opts.IncludeLoopback), nil
	case KindContainer:
		if opts.Container == "" {
			return nil, fmt.Errorf("source kind %q needs a container name", opts.Kind)
		}
		return NewContainerReader(ctx, opts.Docker, opts.Container)
	default:
		return nil, fmt.Errorf("unknown source kind %q", opts.Kind)
	}
}
