package service

import (
	"context"

	"github.com/google/uuid"

	"donapoint/internal/point/moderation"
	"donapoint/internal/point/models"
)

// Create validates the payload and persists a new point. Points created by
// an organization start PENDING; everything else is immediately ACTIVE.
func (s *Service) Create(ctx context.Context, req *models.CreatePointRequest) (*models.Point, error) {
	p, err := req.ToPoint(uuid.New(), s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, s.translateStoreErr(ctx, err, "create point")
	}

	if s.metrics != nil {
		s.metrics.PointsCreated.Inc()
	}
	s.invalidateCache(ctx)
	s.logger.InfoContext(ctx, "point created",
		"point_id", p.ID,
		"state", p.State,
		"creator_type", p.CreatorType,
	)
	return p, nil
}

// Update applies a sparse merge onto an existing point. The ownership check
// runs before the merge; afterwards a rejected organization point re-enters
// the moderation queue unless the edit only toggled visibility.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdatePointRequest) (*models.Point, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "find point")
	}

	if err := checkMutation(p, req.RequesterID); err != nil {
		return nil, err
	}

	if err := req.Apply(p); err != nil {
		return nil, err
	}

	if moderation.ResubmitOnEdit(p, req.FieldCount()) {
		if s.metrics != nil {
			s.metrics.PointsResubmitted.Inc()
		}
		s.logger.InfoContext(ctx, "rejected point resubmitted for review", "point_id", p.ID)
	}

	if err := s.store.Save(ctx, p); err != nil {
		return nil, s.translateStoreErr(ctx, err, "save point")
	}

	s.invalidateCache(ctx)
	return p, nil
}

// Approve transitions a point to ACTIVE and makes it publicly visible.
// Idempotent: approving an active point leaves it active.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.Point, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "find point")
	}

	moderation.Approve(p)

	if err := s.store.Save(ctx, p); err != nil {
		return nil, s.translateStoreErr(ctx, err, "save point")
	}

	if s.metrics != nil {
		s.metrics.PointsApproved.Inc()
	}
	s.invalidateCache(ctx)
	s.logger.InfoContext(ctx, "point approved", "point_id", p.ID)
	return p, nil
}

// Reject transitions a point to REJECTED and records the reason.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.Point, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateStoreErr(ctx, err, "find point")
	}

	moderation.Reject(p, reason)

	if err := s.store.Save(ctx, p); err != nil {
		return nil, s.translateStoreErr(ctx, err, "save point")
	}

	if s.metrics != nil {
		s.metrics.PointsRejected.Inc()
	}
	s.invalidateCache(ctx)
	s.logger.InfoContext(ctx, "point rejected", "point_id", p.ID, "reason", reason)
	return p, nil
}
