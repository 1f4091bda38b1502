package counters

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocker struct {
	containers []types.Container
	body       string
	closed     bool
}

func (f *fakeDocker) ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error) {
	return f.containers, nil
}

func (f *fakeDocker) ContainerStats(ctx context.Context, id string, stream bool) (types.ContainerStats, error) {
	return types.ContainerStats{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func (f *fakeDocker) Close() error {
	f.closed = true
	return nil
}

func newFakeDocker(body string) *fakeDocker {
	return &fakeDocker{
		containers: []types.Container{
			{ID: "3f4e5d6c7b8a9f0e1d2c", Names: []string{"/web"}},
			{ID: "aa11bb22cc33dd44ee55", Names: []string{"/db"}},
		},
		body: body,
	}
}

func TestContainerReader_ResolvesByName(t *testing.T) {
	api := newFakeDocker(`{}`)
	r, err := newContainerReader(context.Background(), api, "db")
	require.NoError(t, err)
	assert.Equal(t, "aa11bb22cc33dd44ee55", r.id)
	assert.Equal(t, "container:db", r.Name())
}

func TestContainerReader_ResolvesByIDPrefix(t *testing.T) {
	api := newFakeDocker(`{}`)
	r, err := newContainerReader(context.Background(), api, "3f4e5d")
	require.NoError(t, err)
	assert.Equal(t, "container:web", r.Name())
}

func TestContainerReader_NotFound(t *testing.T) {
	api := newFakeDocker(`{}`)
	_, err := newContainerReader(context.Background(), api, "cache")
	assert.ErrorIs(t, err, ErrContainerNotFound)
}

func TestContainerReader_SumsNetworks(t *testing.T) {
	body := `{"networks":{"eth0":{"rx_bytes":2048,"tx_bytes":1024},"eth1":{"rx_bytes":10,"tx_bytes":20}}}`
	api := newFakeDocker(body)
	r, err := newContainerReader(context.Background(), api, "web")
	require.NoError(t, err)

	s, err := r.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2058), s.RxBytes)
	assert.Equal(t, uint64(1044), s.TxBytes)

	require.NoError(t, r.Close())
	assert.True(t, api.closed)
}

func TestContainerReader_EmptyBody(t *testing.T) {
	api := newFakeDocker("")
	r, err := newContainerReader(context.Background(), api, "web")
	require.NoError(t, err)

	_, err = r.Read(context.Background())
	assert.Error(t, err)
}
