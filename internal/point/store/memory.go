package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"donapoint/internal/point/models"
	"donapoint/pkg/platform/sentinel"
)

// InMemory keeps points in a map guarded by a RWMutex. It stores value
// copies so callers can never mutate a record without going through Save,
// which keeps read-modify-write races confined to last-write-wins.
type InMemory struct {
	mu     sync.RWMutex
	points map[uuid.UUID]models.Point
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{points: make(map[uuid.UUID]models.Point)}
}

func (s *InMemory) Create(_ context.Context, p *models.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.points[p.ID]; ok {
		return sentinel.ErrConflict
	}
	s.points[p.ID] = *p
	return nil
}

func (s *InMemory) Save(_ context.Context, p *models.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.points[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.points[p.ID] = *p
	return nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.points[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.points, id)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.points[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Point, error) {
	return s.filter(func(models.Point) bool { return true }), nil
}

func (s *InMemory) ListByState(_ context.Context, state models.PointState) ([]*models.Point, error) {
	return s.filter(func(p models.Point) bool { return p.State == state }), nil
}

func (s *InMemory) ListByCreator(_ context.Context, creatorID uuid.UUID) ([]*models.Point, error) {
	return s.filter(func(p models.Point) bool {
		return p.CreatorType == models.CreatorOrganization &&
			p.CreatorID != nil && *p.CreatorID == creatorID
	}), nil
}

func (s *InMemory) ListVisible(_ context.Context) ([]*models.Point, error) {
	return s.filter(func(p models.Point) bool { return p.VisibleOnMap() }), nil
}

func (s *InMemory) ListByDonationType(_ context.Context, t models.DonationType) ([]*models.Point, error) {
	return s.filter(func(p models.Point) bool {
		return p.Active && strings.Contains(strings.ToLower(p.DonationTypes), t.String())
	}), nil
}

func (s *InMemory) SearchByName(_ context.Context, name string) ([]*models.Point, error) {
	needle := strings.ToLower(name)
	return s.filter(func(p models.Point) bool {
		return p.Active && strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

// filter returns copies of matching points in creation order.
func (s *InMemory) filter(keep func(models.Point) bool) []*models.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Point, 0, len(s.points))
	for _, p := range s.points {
		if keep(p) {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
