// internal/counters/container.go
package counters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
)

// ErrContainerNotFound is returned when no container matches the name or ID
var ErrContainerNotFound = errors.New("container not found")

// resolveContainer finds a running container by name or ID prefix and returns
// its full ID and display name
func resolveContainer(ctx context.Context, api dockerAPI, ref string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	containers, err := api.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return "", "", fmt.Errorf("list containers: %w", err)
	}

	ref = strings.TrimPrefix(ref, "/")
	for _, cont := range containers {
		name := cont.ID
		if len(cont.Names) > 0 {
			// Docker prefixes names with "/"
			name = strings.TrimPrefix(cont.Names[0], "/")
		}

		if name == ref || cont.ID == ref || (len(ref) >= 4 && strings.HasPrefix(cont.ID, ref)) {
			return cont.ID, name, nil
		}
	}

	return "", "", fmt.Errorf("%w: %s", ErrContainerNotFound, ref)
}
