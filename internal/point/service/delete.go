package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	dErrors "donapoint/pkg/domain-errors"
	"donapoint/pkg/platform/sentinel"
)

// Delete applies the differential deletion policy.
//
// Organization-owned points are physically removed, but only by their
// creator; the removal is verified with a synchronous re-read. Points
// without an explicit creator type are still treated as organization-owned
// when both a stored creator id and a requester id are present — a fallback
// for records that predate the creator_type column.
//
// Administrator-owned points are never removed: they are deactivated and
// retained so the history stays intact.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, requesterID *uuid.UUID) error {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return s.translateStoreErr(ctx, err, "find point")
	}

	organizationOwned := p.OrganizationCreated() ||
		(p.CreatorID != nil && requesterID != nil)

	if !organizationOwned {
		p.Active = false
		if err := s.store.Save(ctx, p); err != nil {
			return s.translateStoreErr(ctx, err, "deactivate point")
		}
		if s.metrics != nil {
			s.metrics.PointsDeactivated.Inc()
		}
		s.invalidateCache(ctx)
		s.logger.InfoContext(ctx, "point deactivated", "point_id", p.ID)
		return nil
	}

	switch {
	case requesterID == nil:
		return dErrors.New(dErrors.CodeValidation, "requester id is required to delete an organization point")
	case p.CreatorID == nil:
		return dErrors.New(dErrors.CodeValidation, "point has no creator configured")
	case *p.CreatorID != *requesterID:
		return dErrors.New(dErrors.CodeForbidden, "point belongs to another organization")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return s.translateStoreErr(ctx, err, "delete point")
	}

	// Post-condition: the id must no longer resolve. One synchronous
	// re-read, no retries.
	if _, err := s.store.FindByID(ctx, id); !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.ErrorContext(ctx, "point still resolves after delete", "point_id", id, "error", err)
		return dErrors.New(dErrors.CodeInternal, "delete verification failed")
	}

	if s.metrics != nil {
		s.metrics.PointsDeleted.Inc()
	}
	s.invalidateCache(ctx)
	s.logger.InfoContext(ctx, "point deleted", "point_id", id)
	return nil
}
