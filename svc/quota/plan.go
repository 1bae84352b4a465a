package quota

import (
	"context"
	"maps"
)

// PlanLimits describes the default ceilings and feature set for one tier.
// Resource values use Unlimited (-1) or a resource-specific sentinel for
// "no ceiling"; see normalizeLimit.
type PlanLimits struct {
	Tier     Tier
	Name     string
	Limits   map[Resource]int64
	Features map[Feature]bool
}

// Source loads the plan catalog into the engine.
type Source interface {
	Load(ctx context.Context) (map[Tier]PlanLimits, error)
}

const (
	gib = int64(1) << 30
)

// defaultCatalog is the built-in plan catalog. Deployments can replace it with
// a YAML file via NewFileSource.
var defaultCatalog = map[Tier]PlanLimits{
	TierStarter: {
		Tier: TierStarter,
		Name: "Starter",
		Limits: map[Resource]int64{
			ResourceMembers:     10,
			ResourceUsers:       2,
			ResourceTrainers:    1,
			ResourceLocations:   1,
			ResourceClasses:     5,
			ResourceStorage:     1 * gib,
			ResourceAPIRequests: 1000,
			ResourceWhatsApp:    50,
			ResourceEmails:      100,
			ResourceAIRequests:  20,
			ResourceFileUpload:  10,
		},
		Features: map[Feature]bool{},
	},
	TierGrowth: {
		Tier: TierGrowth,
		Name: "Growth",
		Limits: map[Resource]int64{
			ResourceMembers:     200,
			ResourceUsers:       5,
			ResourceTrainers:    10,
			ResourceLocations:   2,
			ResourceClasses:     50,
			ResourceStorage:     10 * gib,
			ResourceAPIRequests: 10000,
			ResourceWhatsApp:    1000,
			ResourceEmails:      2000,
			ResourceAIRequests:  200,
			ResourceFileUpload:  50,
		},
		Features: map[Feature]bool{
			FeatureWhatsApp:      true,
			FeatureMultiLocation: true,
		},
	},
	TierPro: {
		Tier: TierPro,
		Name: "Pro",
		Limits: map[Resource]int64{
			ResourceMembers:     1000,
			ResourceUsers:       15,
			ResourceTrainers:    50,
			ResourceLocations:   5,
			ResourceClasses:     200,
			ResourceStorage:     50 * gib,
			ResourceAPIRequests: 100000,
			ResourceWhatsApp:    5000,
			ResourceEmails:      10000,
			ResourceAIRequests:  1000,
			ResourceFileUpload:  50,
		},
		Features: map[Feature]bool{
			FeatureWhatsApp:       true,
			FeatureMultiLocation:  true,
			FeatureAIAssistant:    true,
			FeatureAPIAccess:      true,
			FeatureCustomBranding: true,
		},
	},
	TierEnterprise: {
		Tier: TierEnterprise,
		Name: "Enterprise",
		Limits: map[Resource]int64{
			ResourceMembers:     Unlimited,
			ResourceUsers:       Unlimited,
			ResourceTrainers:    Unlimited,
			ResourceLocations:   Unlimited,
			ResourceClasses:     Unlimited,
			ResourceStorage:     Unlimited,
			ResourceAPIRequests: Unlimited,
			ResourceWhatsApp:    Unlimited,
			ResourceEmails:      Unlimited,
			ResourceAIRequests:  Unlimited,
			ResourceFileUpload:  500,
		},
		Features: map[Feature]bool{
			FeatureWhatsApp:       true,
			FeatureMultiLocation:  true,
			FeatureAIAssistant:    true,
			FeatureAPIAccess:      true,
			FeatureCustomBranding: true,
		},
	},
}

// staticSource serves a fixed catalog from memory.
type staticSource struct {
	catalog map[Tier]PlanLimits
}

// DefaultSource returns a Source serving the built-in plan catalog.
func DefaultSource() Source {
	return NewStaticSource(defaultCatalog)
}

// NewStaticSource returns a Source serving a deep copy of the given catalog.
func NewStaticSource(catalog map[Tier]PlanLimits) Source {
	return &staticSource{catalog: clonePlanCatalog(catalog)}
}

// Load returns a copy of the catalog so callers cannot mutate shared state.
func (s *staticSource) Load(_ context.Context) (map[Tier]PlanLimits, error) {
	return clonePlanCatalog(s.catalog), nil
}

func clonePlanCatalog(catalog map[Tier]PlanLimits) map[Tier]PlanLimits {
	out := make(map[Tier]PlanLimits, len(catalog))
	for tier, plan := range catalog {
		out[tier] = PlanLimits{
			Tier:     plan.Tier,
			Name:     plan.Name,
			Limits:   maps.Clone(plan.Limits),
			Features: maps.Clone(plan.Features),
		}
	}
	return out
}

// validateCatalog checks that every known tier is present and every plan
// covers every resource, so limit resolution never hits a missing entry.
func validateCatalog(catalog map[Tier]PlanLimits) error {
	for _, tier := range []Tier{TierStarter, TierGrowth, TierPro, TierEnterprise} {
		plan, ok := catalog[tier]
		if !ok {
			return ErrIncompleteCatalog
		}
		for _, res := range allResources {
			limit, ok := plan.Limits[res]
			if !ok {
				return ErrIncompleteCatalog
			}
			if limit < Unlimited {
				return ErrInvalidPlanConfiguration
			}
		}
	}
	return nil
}

// allResources lists every metered resource a plan must define.
var allResources = []Resource{
	ResourceMembers, ResourceUsers, ResourceTrainers, ResourceLocations,
	ResourceClasses, ResourceStorage, ResourceAPIRequests, ResourceWhatsApp,
	ResourceEmails, ResourceAIRequests, ResourceFileUpload,
}
