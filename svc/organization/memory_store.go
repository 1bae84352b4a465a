package organization

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store for tests and local development.
type MemStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Organization
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[uuid.UUID]*Organization)}
}

func (s *MemStore) Create(_ context.Context, org *Organization) error {
	if !org.Tier.Valid() {
		return ErrInvalidTier
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Slug == org.Slug {
			return ErrSlugTaken
		}
	}

	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	s.byID[org.ID] = cloneOrg(org)
	return nil
}

func (s *MemStore) GetByID(_ context.Context, id uuid.UUID) (*Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrg(org), nil
}

func (s *MemStore) GetBySlug(_ context.Context, slug string) (*Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, org := range s.byID {
		if org.Slug == slug {
			return cloneOrg(org), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) Update(_ context.Context, org *Organization) error {
	if !org.Tier.Valid() {
		return ErrInvalidTier
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[org.ID]; !ok {
		return ErrNotFound
	}
	org.UpdatedAt = time.Now().UTC()
	s.byID[org.ID] = cloneOrg(org)
	return nil
}

func (s *MemStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func cloneOrg(org *Organization) *Organization {
	out := *org
	out.Features = maps.Clone(org.Features)
	if org.MaxMembers != nil {
		v := *org.MaxMembers
		out.MaxMembers = &v
	}
	if org.MaxUsers != nil {
		v := *org.MaxUsers
		out.MaxUsers = &v
	}
	if org.MaxTrainers != nil {
		v := *org.MaxTrainers
		out.MaxTrainers = &v
	}
	if org.MaxLocations != nil {
		v := *org.MaxLocations
		out.MaxLocations = &v
	}
	return &out
}
