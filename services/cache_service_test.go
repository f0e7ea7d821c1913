package services

import (
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidateRepairCaches_UsesCallerContext(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { client.Close() })
	cs := &CacheService{logger: testLogger(), config: &structs.Config{}, client: client}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cs.InvalidateRepairCaches(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepairService_InvalidationFailureDoesNotFailSave(t *testing.T) {
	f := newRepairFixture()
	f.cache.err = errBoom

	_, err := f.service.SubmitRepair(context.Background(), employee, ringInput(tables.StatusInProgress), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.invalidations)
}
