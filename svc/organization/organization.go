package organization

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/gymgo/gymgo/svc/quota"
)

// Organization is a tenant of the platform: one gym business, possibly with
// several locations. The Max* fields are explicit per-organization ceiling
// overrides; nil means the subscription tier default applies. Features is a
// sparse override map on top of the tier's feature set.
type Organization struct {
	ID           uuid.UUID
	Slug         string
	Name         string
	Tier         quota.Tier
	MaxMembers   *int64
	MaxUsers     *int64
	MaxTrainers  *int64
	MaxLocations *int64
	Features     map[quota.Feature]bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PlanData extracts the raw plan inputs the quota engine resolves limits from.
func (o *Organization) PlanData() *quota.OrgPlan {
	overrides := make(map[quota.Resource]int64, 4)
	if o.MaxMembers != nil {
		overrides[quota.ResourceMembers] = *o.MaxMembers
	}
	if o.MaxUsers != nil {
		overrides[quota.ResourceUsers] = *o.MaxUsers
	}
	if o.MaxTrainers != nil {
		overrides[quota.ResourceTrainers] = *o.MaxTrainers
	}
	if o.MaxLocations != nil {
		overrides[quota.ResourceLocations] = *o.MaxLocations
	}

	return &quota.OrgPlan{
		Tier:      o.Tier,
		Overrides: overrides,
		Features:  maps.Clone(o.Features),
	}
}
