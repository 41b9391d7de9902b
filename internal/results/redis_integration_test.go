//go:build integration

package results

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(ctx context.Context, t *testing.T) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Terminate(context.Background())) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return host + ":" + port.Port()
}

func TestRedisSink_Integration(t *testing.T) {
	ctx := context.Background()
	addr := startRedis(ctx, t)

	sink, err := NewRedisSink(ctx, addr, "", 0, "quiz11:results")
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Submit(ctx, record()))
	require.NoError(t, sink.Submit(ctx, record()))

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	items, err := rdb.LRange(ctx, "quiz11:results", 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, items, 2)

	var p Payload
	require.NoError(t, json.Unmarshal([]byte(items[0]), &p))
	require.Equal(t, "7/9", p.Score)
}
