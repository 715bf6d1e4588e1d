// Package store persists donation points. Two implementations exist: an
// in-memory store for tests and single-node deployments, and a PostgreSQL
// store selected when DATABASE_URL is configured.
package store

import (
	"context"

	"github.com/google/uuid"

	"donapoint/internal/point/models"
)

// Store is the record store the point service runs against. Implementations
// return sentinel errors (pkg/platform/sentinel) for missing records; the
// service translates them into domain errors.
type Store interface {
	// Create inserts a new point. ErrConflict if the id already exists.
	Create(ctx context.Context, p *models.Point) error
	// Save overwrites an existing point. ErrNotFound if the id is unknown.
	Save(ctx context.Context, p *models.Point) error
	// Delete physically removes a point. ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id uuid.UUID) error
	// FindByID resolves a point by id. ErrNotFound if the id is unknown.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Point, error)

	// List returns every point, including deactivated and unapproved ones.
	List(ctx context.Context) ([]*models.Point, error)
	// ListByState returns points in the given moderation state.
	ListByState(ctx context.Context, state models.PointState) ([]*models.Point, error)
	// ListByCreator returns organization-created points owned by creatorID.
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*models.Point, error)
	// ListVisible returns the public map view: active and approved points.
	ListVisible(ctx context.Context) ([]*models.Point, error)
	// ListByDonationType returns active points accepting the given category.
	ListByDonationType(ctx context.Context, t models.DonationType) ([]*models.Point, error)
	// SearchByName returns active points whose name contains the given
	// substring, case-insensitively.
	SearchByName(ctx context.Context, name string) ([]*models.Point, error)
}
