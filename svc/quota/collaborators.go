package quota

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// OrgPlan is the raw plan data stored on an organization record: the
// subscription tier plus sparse per-organization overrides. Fields absent from
// the maps fall back to tier defaults.
type OrgPlan struct {
	Tier      Tier
	Overrides map[Resource]int64
	Features  map[Feature]bool
}

// OrganizationSource looks up the raw plan data for an organization.
// Implementations return ErrOrganizationNotFound (possibly wrapped) when the
// organization does not exist.
type OrganizationSource interface {
	OrgPlan(ctx context.Context, orgID uuid.UUID) (*OrgPlan, error)
}

// CounterFunc returns the current live count for one resource of an
// organization. Implementations apply any role filtering themselves: the
// users counter counts system roles only, the trainers counter trainer roles
// only. Should be fast; aggregate at the repository level.
type CounterFunc func(ctx context.Context, orgID uuid.UUID) (int64, error)

// CounterRegistry maps a Resource to its CounterFunc.
// Not thread-safe: register all counters at startup only.
type CounterRegistry map[Resource]CounterFunc

// NewRegistry returns a new, empty CounterRegistry.
func NewRegistry() CounterRegistry {
	return make(CounterRegistry)
}

// Register sets or replaces the CounterFunc for the given resource. Panics if fn is nil.
func (r CounterRegistry) Register(res Resource, fn CounterFunc) {
	if fn == nil {
		panic(fmt.Sprintf("quota: CounterFunc for resource %q cannot be nil", res))
	}
	r[res] = fn
}

// UsageStore tracks period-scoped usage counters (monthly messages, daily API
// calls) and the storage gauge. Implementations own the atomicity of
// consumption; the engine never performs read-modify-write itself.
//
// A counter that has never been written reads as zero usage, not as an error.
type UsageStore interface {
	// Used returns consumption in the current period for res.
	Used(ctx context.Context, orgID uuid.UUID, res Resource) (int64, error)

	// Consume atomically increments usage by n unless the result would exceed
	// limit. A negative limit disables the ceiling. Returns the units left in
	// the period (-1 when uncapped) and whether the increment was applied.
	Consume(ctx context.Context, orgID uuid.UUID, res Resource, n, limit int64) (applied bool, remaining int64, err error)

	// AddStorage adjusts the storage gauge by delta bytes, flooring at zero,
	// and returns the new total.
	AddStorage(ctx context.Context, orgID uuid.UUID, delta int64) (int64, error)
}
