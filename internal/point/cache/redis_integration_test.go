//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"donapoint/internal/point/cache"
	"donapoint/internal/point/models"
	"donapoint/pkg/platform/sentinel"
	"donapoint/pkg/testutil/containers"
)

func TestRedisCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	c := cache.NewRedis(rc.Client, time.Minute)

	points := []*models.Point{{
		ID:            uuid.New(),
		Name:          "Centro Solidario",
		Address:       "Av. Corrientes 1234",
		Latitude:      -34.6037,
		Longitude:     -58.3816,
		DonationTypes: `["clothing"]`,
		Active:        true,
		State:         models.StateActive,
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}}

	t.Run("empty cache misses", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		_, err := c.GetVisible(ctx)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("set then get round-trips the listing", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, c.SetVisible(ctx, points))

		got, err := c.GetVisible(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, points[0].ID, got[0].ID)
		require.Equal(t, points[0].Name, got[0].Name)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, c.SetVisible(ctx, points))
		require.NoError(t, c.Invalidate(ctx))

		_, err := c.GetVisible(ctx)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("corrupt entry behaves like a miss", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, rc.Client.Set(ctx, "donapoint:points:visible", "{not json", time.Minute).Err())

		_, err := c.GetVisible(ctx)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
