//go:build integration

package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"sybilguard/internal/platform/config"
	"sybilguard/pkg/testutil/containers"
)

func TestNew_ConnectsAndReportsHealth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	container := containers.GetManager().GetRedis(t)

	client, err := New(context.Background(), config.RedisConfig{URL: container.Addr, PoolSize: 4, KeyPrefix: "it:"})
	require.NoError(t, err)
	require.NotNil(t, client)
	defer func() { _ = client.Close() }()

	require.NoError(t, client.Health(context.Background()))
	require.Equal(t, "it:", client.KeyPrefix)
}
