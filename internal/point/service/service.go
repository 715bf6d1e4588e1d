// Package service orchestrates the donation point lifecycle: creation under
// the moderation policy, sparse updates, the differential deletion policy
// and the read-side query surface.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"donapoint/internal/point/cache"
	"donapoint/internal/point/geo"
	"donapoint/internal/point/metrics"
	"donapoint/internal/point/models"
	"donapoint/internal/point/store"
	dErrors "donapoint/pkg/domain-errors"
	"donapoint/pkg/platform/sentinel"
)

// Cache is the optional read cache for the public map view. Implemented by
// cache.Redis; a nil cache disables caching entirely.
type Cache interface {
	GetVisible(ctx context.Context) ([]*models.Point, error)
	SetVisible(ctx context.Context, points []*models.Point) error
	Invalidate(ctx context.Context) error
}

var _ Cache = (*cache.Redis)(nil)

// Service implements the point operations on top of a record store.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	cache   Cache
	now     func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// withNow pins the clock in tests.
func withNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get resolves a single point by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Point, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "find point")
	}
	return p, nil
}

// ListAll returns every point regardless of visibility or moderation state.
func (s *Service) ListAll(ctx context.Context) ([]*models.Point, error) {
	points, err := s.store.List(ctx)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "list points")
	}
	return points, nil
}

// ListPublic returns the public map view: active and approved points. The
// listing is served from the cache when one is configured.
func (s *Service) ListPublic(ctx context.Context) ([]*models.Point, error) {
	if s.cache != nil {
		if points, err := s.cache.GetVisible(ctx); err == nil {
			return points, nil
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "visible cache read failed", "error", err)
		}
	}

	points, err := s.store.ListVisible(ctx)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "list visible points")
	}

	if s.cache != nil {
		if err := s.cache.SetVisible(ctx, points); err != nil {
			s.logger.WarnContext(ctx, "visible cache write failed", "error", err)
		}
	}
	return points, nil
}

// ListPending returns points waiting for moderation.
func (s *Service) ListPending(ctx context.Context) ([]*models.Point, error) {
	points, err := s.store.ListByState(ctx, models.StatePending)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "list pending points")
	}
	return points, nil
}

// ListByOrganization returns the points an organization created.
func (s *Service) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Point, error) {
	points, err := s.store.ListByCreator(ctx, orgID)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "list points by creator")
	}
	return points, nil
}

// ListByType returns active points accepting the given donation category.
// Unknown categories fail validation rather than returning an empty list.
func (s *Service) ListByType(ctx context.Context, typ string) ([]*models.Point, error) {
	dt, err := models.ParseDonationType(typ)
	if err != nil {
		return nil, err
	}
	points, err := s.store.ListByDonationType(ctx, dt)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "list points by type")
	}
	return points, nil
}

// SearchByName returns active points whose name contains the given
// substring, case-insensitively.
func (s *Service) SearchByName(ctx context.Context, name string) ([]*models.Point, error) {
	points, err := s.store.SearchByName(ctx, name)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "search points by name")
	}
	return points, nil
}

// Nearby returns the publicly visible points within radiusKm of the given
// coordinate, boundary inclusive.
func (s *Service) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]*models.Point, error) {
	start := s.now()
	visible, err := s.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	near := make([]*models.Point, 0, len(visible))
	for _, p := range visible {
		if geo.WithinRadius(lat, lon, p.Latitude, p.Longitude, radiusKm) {
			near = append(near, p)
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveNearby(start)
	}
	return near, nil
}

// invalidateCache drops the cached map view after a mutation. Failures are
// logged, never surfaced: the TTL bounds staleness.
func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "visible cache invalidation failed", "error", err)
	}
}

// translateStoreErr maps sentinel store errors onto domain errors and logs
// everything else as an internal failure.
func (s *Service) translateStoreErr(ctx context.Context, err error, op string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "point not found")
	}
	s.logger.ErrorContext(ctx, "store operation failed", "op", op, "error", err)
	return dErrors.New(dErrors.CodeInternal, fmt.Sprintf("%s failed", op))
}
