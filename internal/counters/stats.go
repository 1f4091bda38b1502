// internal/counters/stats.go
package counters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types"

	"github.com/rusenback/netspeed/internal/model"
)

// ContainerReader reads network counters of a single Docker container
type ContainerReader struct {
	api  dockerAPI
	id   string
	name string
}

// NewContainerReader connects to Docker and resolves ref (name or ID)
func NewContainerReader(ctx context.Context, cfg DockerConfig, ref string) (*ContainerReader, error) {
	api, err := newDockerAPI(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to docker: %w", err)
	}

	reader, err := newContainerReader(ctx, api, ref)
	if err != nil {
		api.Close()
		return nil, err
	}
	return reader, nil
}

func newContainerReader(ctx context.Context, api dockerAPI, ref string) (*ContainerReader, error) {
	id, name, err := resolveContainer(ctx, api, ref)
	if err != nil {
		return nil, err
	}
	return &ContainerReader{api: api, id: id, name: name}, nil
}

// Name describes the source for logs and the UI
func (c *ContainerReader) Name() string {
	return "container:" + c.name
}

// Read fetches one stats snapshot (stream: false) and sums all networks
func (c *ContainerReader) Read(ctx context.Context) (model.Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := c.api.ContainerStats(ctx, c.id, false)
	if err != nil {
		return model.Sample{}, fmt.Errorf("container stats: %w", err)
	}
	defer drain(resp.Body)

	var stats types.StatsJSON
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		if errors.Is(err, io.EOF) {
			return model.Sample{}, fmt.Errorf("container stats: empty response")
		}
		return model.Sample{}, fmt.Errorf("decode container stats: %w", err)
	}

	var rx, tx uint64
	for _, network := range stats.Networks {
		rx += network.RxBytes
		tx += network.TxBytes
	}

	return model.Sample{
		RxBytes:   rx,
		TxBytes:   tx,
		Timestamp: time.Now(),
	}, nil
}

// Close closes the Docker connection
func (c *ContainerReader) Close() error {
	if c.api != nil {
		return c.api.Close()
	}
	return nil
}
