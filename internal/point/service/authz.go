package service

import (
	"github.com/google/uuid"

	"donapoint/internal/point/models"
	dErrors "donapoint/pkg/domain-errors"
)

// checkMutation enforces that an organization-owned point is only mutated by
// its creator. A missing requester id means an administrative context and
// skips the check; callers acting for an organization must supply it.
func checkMutation(p *models.Point, requesterID *uuid.UUID) error {
	if !p.OrganizationCreated() || requesterID == nil {
		return nil
	}
	if p.CreatorID != nil && *p.CreatorID != *requesterID {
		return dErrors.New(dErrors.CodeForbidden, "point belongs to another organization")
	}
	return nil
}
