package member

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store for tests and local development.
type MemStore struct {
	mu      sync.RWMutex
	members map[uuid.UUID]Member
	staff   map[uuid.UUID]Staff
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		members: make(map[uuid.UUID]Member),
		staff:   make(map[uuid.UUID]Staff),
	}
}

func (s *MemStore) CreateMember(_ context.Context, m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members {
		if existing.OrganizationID == m.OrganizationID && m.Email != "" && existing.Email == m.Email {
			return ErrEmailTaken
		}
	}
	m.CreatedAt = time.Now().UTC()
	s.members[m.ID] = *m
	return nil
}

func (s *MemStore) ListMembers(_ context.Context, orgID uuid.UUID) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Member
	for _, m := range s.members {
		if m.OrganizationID == orgID {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b Member) int { return strings.Compare(a.FullName, b.FullName) })
	return out, nil
}

func (s *MemStore) DeleteMember(_ context.Context, orgID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok || m.OrganizationID != orgID {
		return ErrNotFound
	}
	delete(s.members, id)
	return nil
}

func (s *MemStore) CreateStaff(_ context.Context, st *Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.staff {
		if existing.OrganizationID == st.OrganizationID && st.Email != "" && existing.Email == st.Email {
			return ErrEmailTaken
		}
	}
	st.CreatedAt = time.Now().UTC()
	s.staff[st.ID] = *st
	return nil
}

func (s *MemStore) ListStaff(_ context.Context, orgID uuid.UUID) ([]Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Staff
	for _, st := range s.staff {
		if st.OrganizationID == orgID {
			out = append(out, st)
		}
	}
	slices.SortFunc(out, func(a, b Staff) int { return strings.Compare(a.FullName, b.FullName) })
	return out, nil
}

func (s *MemStore) DeleteStaff(_ context.Context, orgID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.staff[id]
	if !ok || st.OrganizationID != orgID {
		return ErrNotFound
	}
	delete(s.staff, id)
	return nil
}

// CountMembers returns the member count for an organization. Used to register
// in-memory row counters in tests and local development.
func (s *MemStore) CountMembers(_ context.Context, orgID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, m := range s.members {
		if m.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

// CountStaff returns how many staff of the given roles the organization has.
func (s *MemStore) CountStaff(_ context.Context, orgID uuid.UUID, roles []string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, st := range s.staff {
		if st.OrganizationID == orgID && slices.Contains(roles, string(st.Role)) {
			n++
		}
	}
	return n, nil
}
