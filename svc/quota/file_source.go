package quota

import (
	"context"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSource loads the plan catalog from a YAML file. The file is read on
// every Load call so a restart-free engine rebuild picks up edits.
type fileSource struct {
	path string
}

// NewFileSource returns a Source reading the catalog from a YAML file:
//
//	plans:
//	  starter:
//	    name: Starter
//	    limits:
//	      members: 10
//	      users: 2
//	    features: [whatsapp]
//
// Resources omitted from a plan fall back to the built-in defaults for its
// tier, so a deployment only overrides what differs.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

type catalogFile struct {
	Plans map[string]planFile `yaml:"plans"`
}

type planFile struct {
	Name     string           `yaml:"name"`
	Limits   map[string]int64 `yaml:"limits"`
	Features []string         `yaml:"features"`
}

func (s *fileSource) Load(_ context.Context) (map[Tier]PlanLimits, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	catalog := clonePlanCatalog(defaultCatalog)
	for name, plan := range file.Plans {
		tier := Tier(name)
		if !tier.Valid() {
			return nil, errors.Join(ErrUnknownTier, errors.New("tier "+name))
		}

		merged := catalog[tier]
		if plan.Name != "" {
			merged.Name = plan.Name
		}
		for res, limit := range plan.Limits {
			merged.Limits[Resource(res)] = limit
		}
		if plan.Features != nil {
			merged.Features = make(map[Feature]bool, len(plan.Features))
			for _, f := range plan.Features {
				merged.Features[Feature(f)] = true
			}
		}
		catalog[tier] = merged
	}

	return catalog, nil
}
