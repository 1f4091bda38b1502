// internal/counters/host.go
package counters

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v4/net"

	"github.com/rusenback/netspeed/internal/model"
)

// HostReader sums byte counters across the host's network interfaces
type HostReader struct {
	interfaces      map[string]bool
	includeLoopback bool

	// ioCounters is swapped out in tests
	ioCounters func(ctx context.Context, pernic bool) ([]psnet.IOCountersStat, error)
}

// NewHostReader creates a reader over all interfaces, or only the named ones
// when interfaces is non-empty
func NewHostReader(interfaces []string, includeLoopback bool) *HostReader {
	set := make(map[string]bool, len(interfaces))
	for _, name := range interfaces {
		name = strings.TrimSpace(name)
		if name != "" {
			set[name] = true
		}
	}

	return &HostReader{
		interfaces:      set,
		includeLoopback: includeLoopback,
		ioCounters:      psnet.IOCountersWithContext,
	}
}

// Name describes the source for logs and the UI
func (h *HostReader) Name() string {
	if len(h.interfaces) == 0 {
		return "host"
	}
	names := make([]string, 0, len(h.interfaces))
	for name := range h.interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return "host:" + strings.Join(names, ",")
}

// Read returns the summed rx/tx counters
func (h *HostReader) Read(ctx context.Context) (model.Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	stats, err := h.ioCounters(ctx, true)
	if err != nil {
		return model.Sample{}, fmt.Errorf("read interface counters: %w", err)
	}

	var rx, tx uint64
	matched := 0
	for _, st := range stats {
		if !h.wants(st.Name) {
			continue
		}
		rx += st.BytesRecv
		tx += st.BytesSent
		matched++
	}

	if len(h.interfaces) > 0 && matched == 0 {
		return model.Sample{}, fmt.Errorf("no matching interfaces found (%s)", h.Name())
	}

	return model.Sample{
		RxBytes:   rx,
		TxBytes:   tx,
		Timestamp: time.Now(),
	}, nil
}

func (h *HostReader) wants(name string) bool {
	if len(h.interfaces) > 0 {
		return h.interfaces[name]
	}
	if !h.includeLoopback && isLoopback(name) {
		return false
	}
	return true
}

// Close is a no-op for host counters
func (h *HostReader) Close() error {
	return nil
}

func isLoopback(name string) bool {
	return name == "lo" || strings.HasPrefix(name, "lo0") ||
		strings.HasPrefix(strings.ToLower(name), "loopback")
}
