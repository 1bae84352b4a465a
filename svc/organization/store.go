package organization

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gymgo/gymgo/svc/quota"
)

// Store persists organization records.
type Store interface {
	// Create inserts a new organization. Returns ErrSlugTaken when the slug
	// already exists.
	Create(ctx context.Context, org *Organization) error

	// GetByID returns the organization or ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// GetBySlug returns the organization or ErrNotFound.
	GetBySlug(ctx context.Context, slug string) (*Organization, error)

	// Update persists tier, name, overrides and features changes.
	Update(ctx context.Context, org *Organization) error

	// Delete removes the organization and, via FK cascade, its dependent rows.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlanSource adapts a Store to quota.OrganizationSource so the engine can
// resolve tier and overrides without knowing about persistence.
type PlanSource struct {
	store Store
}

// NewPlanSource wraps the store for the quota engine.
func NewPlanSource(store Store) *PlanSource {
	return &PlanSource{store: store}
}

// OrgPlan implements quota.OrganizationSource. A missing organization maps to
// quota.ErrOrganizationNotFound, which the engine turns into a hard deny.
func (s *PlanSource) OrgPlan(ctx context.Context, orgID uuid.UUID) (*quota.OrgPlan, error) {
	org, err := s.store.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, quota.ErrOrganizationNotFound
		}
		return nil, err
	}
	return org.PlanData(), nil
}
