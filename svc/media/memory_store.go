package media

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store for tests and development.
type MemStore struct {
	mu    sync.RWMutex
	files map[uuid.UUID]*File
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{files: make(map[uuid.UUID]*File)}
}

func cloneFile(f *File) *File {
	c := *f
	return &c
}

func (s *MemStore) Create(ctx context.Context, f *File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.CreatedAt = time.Now().UTC()
	s.files[f.ID] = cloneFile(f)
	return nil
}

func (s *MemStore) GetByID(ctx context.Context, orgID, id uuid.UUID) (*File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok || f.OrganizationID != orgID {
		return nil, ErrNotFound
	}
	return cloneFile(f), nil
}

func (s *MemStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var files []File
	for _, f := range s.files {
		if f.OrganizationID == orgID {
			files = append(files, *cloneFile(f))
		}
	}
	slices.SortFunc(files, func(a, b File) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return files, nil
}

func (s *MemStore) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok || f.OrganizationID != orgID {
		return ErrNotFound
	}
	delete(s.files, id)
	return nil
}

func (s *MemStore) DeleteByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var freed int64
	for id, f := range s.files {
		if f.OrganizationID == orgID {
			freed += f.SizeBytes
			delete(s.files, id)
		}
	}
	return freed, nil
}
