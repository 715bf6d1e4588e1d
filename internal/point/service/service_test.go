package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donapoint/internal/point/models"
	"donapoint/internal/point/store"
	dErrors "donapoint/pkg/domain-errors"
	"donapoint/pkg/platform/sentinel"
)

func newService(t *testing.T, opts ...Option) (*Service, *store.InMemory) {
	t.Helper()
	st := store.NewInMemory()
	opts = append(opts, withNow(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}))
	return New(st, opts...), st
}

func createRequest(creatorID *uuid.UUID, creatorType string) *models.CreatePointRequest {
	lat, lon := -34.6037, -58.3816
	return &models.CreatePointRequest{
		Name:          "Centro Solidario",
		Address:       "Av. Corrientes 1234",
		Latitude:      &lat,
		Longitude:     &lon,
		DonationTypes: `["clothing","paper"]`,
		CreatorID:     creatorID,
		CreatorType:   creatorType,
	}
}

func updateRequest(t *testing.T, payload string) *models.UpdatePointRequest {
	t.Helper()
	var req models.UpdatePointRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	return &req
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("organization points enter the moderation queue", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()

		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)
		assert.Equal(t, models.StatePending, p.State)
		assert.True(t, p.Active)

		pending, err := svc.ListPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		public, err := svc.ListPublic(ctx)
		require.NoError(t, err)
		assert.Empty(t, public)
	})

	t.Run("administrator points are immediately public", func(t *testing.T) {
		svc, _ := newService(t)
		admin := uuid.New()

		p, err := svc.Create(ctx, createRequest(&admin, "ADMINISTRATOR"))
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, p.State)

		public, err := svc.ListPublic(ctx)
		require.NoError(t, err)
		require.Len(t, public, 1)
		assert.Equal(t, p.ID, public[0].ID)
	})

	t.Run("invalid payload never reaches the store", func(t *testing.T) {
		svc, st := newService(t)
		req := createRequest(nil, "")
		req.Name = ""

		_, err := svc.Create(ctx, req)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

		all, err := st.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestModeration(t *testing.T) {
	ctx := context.Background()

	t.Run("approve makes a pending point visible", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)

		approved, err := svc.Approve(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, approved.State)
		assert.True(t, approved.Active)

		public, err := svc.ListPublic(ctx)
		require.NoError(t, err)
		require.Len(t, public, 1)
	})

	t.Run("approve is idempotent", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)

		_, err = svc.Approve(ctx, p.ID)
		require.NoError(t, err)
		again, err := svc.Approve(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, again.State)
		assert.True(t, again.Active)
	})

	t.Run("reject records the reason and hides the point", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)

		rejected, err := svc.Reject(ctx, p.ID, "address could not be verified")
		require.NoError(t, err)
		assert.Equal(t, models.StateRejected, rejected.State)
		assert.Equal(t, "address could not be verified", rejected.RejectionReason)

		public, err := svc.ListPublic(ctx)
		require.NoError(t, err)
		assert.Empty(t, public)
	})

	t.Run("moderating an unknown point fails with not found", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Approve(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("sparse merge leaves absent fields untouched", func(t *testing.T) {
		svc, _ := newService(t)
		p, err := svc.Create(ctx, createRequest(nil, ""))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, p.ID, updateRequest(t, `{"name":"Centro Renovado"}`))
		require.NoError(t, err)
		assert.Equal(t, "Centro Renovado", updated.Name)
		assert.Equal(t, p.Address, updated.Address)
		assert.Equal(t, p.Latitude, updated.Latitude)
	})

	t.Run("owner can edit an organization point", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)

		payload := `{"creatorId":"` + org.String() + `","name":"Centro Renovado"}`
		updated, err := svc.Update(ctx, p.ID, updateRequest(t, payload))
		require.NoError(t, err)
		assert.Equal(t, "Centro Renovado", updated.Name)
	})

	t.Run("another organization is forbidden", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)

		payload := `{"creatorId":"` + uuid.NewString() + `","name":"Hostile Edit"}`
		_, err = svc.Update(ctx, p.ID, updateRequest(t, payload))
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))

		found, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Centro Solidario", found.Name)
	})

	t.Run("edit without requester id is allowed", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, p.ID, updateRequest(t, `{"name":"Back Office Edit"}`))
		require.NoError(t, err)
		assert.Equal(t, "Back Office Edit", updated.Name)
	})

	t.Run("editing a rejected point resubmits it", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)
		_, err = svc.Reject(ctx, p.ID, "incomplete")
		require.NoError(t, err)

		payload := `{"creatorId":"` + org.String() + `","name":"Centro Corregido","address":"Av. Santa Fe 99"}`
		updated, err := svc.Update(ctx, p.ID, updateRequest(t, payload))
		require.NoError(t, err)
		assert.Equal(t, models.StatePending, updated.State)
		assert.Empty(t, updated.RejectionReason)
	})

	t.Run("visibility toggle alone does not resubmit", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)
		_, err = svc.Reject(ctx, p.ID, "incomplete")
		require.NoError(t, err)

		updated, err := svc.Update(ctx, p.ID, updateRequest(t, `{"active":false}`))
		require.NoError(t, err)
		assert.Equal(t, models.StateRejected, updated.State)
		assert.Equal(t, "incomplete", updated.RejectionReason)
		assert.False(t, updated.Active)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("administrator points are deactivated, not removed", func(t *testing.T) {
		svc, st := newService(t)
		admin := uuid.New()
		p, err := svc.Create(ctx, createRequest(&admin, "ADMINISTRATOR"))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, p.ID, nil))

		kept, err := st.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, kept.Active)
		assert.Equal(t, models.StateActive, kept.State)
	})

	t.Run("creatorless points are deactivated", func(t *testing.T) {
		svc, st := newService(t)
		p, err := svc.Create(ctx, createRequest(nil, ""))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, p.ID, nil))

		kept, err := st.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, kept.Active)
	})

	t.Run("owner removes an organization point physically", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, p.ID, &org))

		_, err = svc.Get(ctx, p.ID)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})

	t.Run("organization point requires a requester id", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)

		err = svc.Delete(ctx, p.ID, nil)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
	})

	t.Run("another organization cannot remove the point", func(t *testing.T) {
		svc, _ := newService(t)
		org := uuid.New()
		other := uuid.New()
		p, err := svc.Create(ctx, createRequest(&org, "ORGANIZATION"))
		require.NoError(t, err)

		err = svc.Delete(ctx, p.ID, &other)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))

		_, err = svc.Get(ctx, p.ID)
		require.NoError(t, err)
	})

	t.Run("deleting an unknown point fails with not found", func(t *testing.T) {
		svc, _ := newService(t)
		err := svc.Delete(ctx, uuid.New(), nil)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func TestNearby(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)

	add := func(name string, lat, lon float64, active bool, state models.PointState) uuid.UUID {
		id := uuid.New()
		require.NoError(t, st.Create(ctx, &models.Point{
			ID:            id,
			Name:          name,
			Address:       "x",
			Latitude:      lat,
			Longitude:     lon,
			DonationTypes: `["other"]`,
			Active:        active,
			State:         state,
			CreatedAt:     time.Now(),
		}))
		return id
	}

	nearID := add("Obelisco", -34.6037, -58.3816, true, models.StateActive)
	add("Montevideo", -34.9066, -56.1994, true, models.StateActive)
	add("Obelisco inactivo", -34.6037, -58.3816, false, models.StateActive)
	add("Obelisco pendiente", -34.6037, -58.3816, true, models.StatePending)

	t.Run("filters by radius and public visibility", func(t *testing.T) {
		near, err := svc.Nearby(ctx, -34.6037, -58.3816, 10)
		require.NoError(t, err)
		require.Len(t, near, 1)
		assert.Equal(t, nearID, near[0].ID)
	})

	t.Run("a wider radius picks up the far point", func(t *testing.T) {
		near, err := svc.Nearby(ctx, -34.6037, -58.3816, 300)
		require.NoError(t, err)
		assert.Len(t, near, 2)
	})
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)

	require.NoError(t, st.Create(ctx, &models.Point{
		ID:            uuid.New(),
		Name:          "Ropa del Barrio",
		Address:       "x",
		DonationTypes: `["clothing"]`,
		Active:        true,
		State:         models.StateActive,
		CreatedAt:     time.Now(),
	}))

	t.Run("search by name", func(t *testing.T) {
		found, err := svc.SearchByName(ctx, "barrio")
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("list by known type", func(t *testing.T) {
		found, err := svc.ListByType(ctx, "clothing")
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("unknown type fails validation", func(t *testing.T) {
		_, err := svc.ListByType(ctx, "furniture")
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
	})
}

// fakeCache records cache traffic for the public listing.
type fakeCache struct {
	stored      []*models.Point
	gets, sets  int
	invalidates int
}

func (c *fakeCache) GetVisible(context.Context) ([]*models.Point, error) {
	c.gets++
	if c.stored == nil {
		return nil, sentinel.ErrNotFound
	}
	return c.stored, nil
}

func (c *fakeCache) SetVisible(_ context.Context, points []*models.Point) error {
	c.sets++
	c.stored = points
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidates++
	c.stored = nil
	return nil
}

func TestPublicListingCache(t *testing.T) {
	ctx := context.Background()
	fc := &fakeCache{}
	svc, _ := newService(t, WithCache(fc))

	admin := uuid.New()
	p, err := svc.Create(ctx, createRequest(&admin, "ADMINISTRATOR"))
	require.NoError(t, err)
	assert.Equal(t, 1, fc.invalidates)

	first, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, fc.sets)

	second, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, fc.sets, "second read should be served from cache")

	_, err = svc.Update(ctx, p.ID, updateRequest(t, `{"name":"Renamed"}`))
	require.NoError(t, err)
	assert.Equal(t, 2, fc.invalidates, "mutations must drop the cached view")
}
