package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr, _ := newTestRedis(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestEnsureConsumerGroup_Idempotent(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, EnsureConsumerGroup(ctx, client, "jobs", "workers"))
	require.NoError(t, EnsureConsumerGroup(ctx, client, "jobs", "workers"))

	groups, err := client.XInfoGroups(ctx, "jobs").Result()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "workers", groups[0].Name)
}
