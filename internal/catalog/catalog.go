package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"plancheck/internal/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the immutable requirement catalog, loaded once at startup
// and passed by reference into every component that needs it.
type Catalog struct {
	requirements []model.Requirement
	byID         map[string]model.Requirement
}

// Load parses the embedded catalog. Any malformed or duplicate entry is
// an error; callers treat that as fatal at startup.
func Load() (*Catalog, error) {
	var doc struct {
		Requirements []model.Requirement `yaml:"requirements"`
	}
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse requirement catalog: %w", err)
	}
	if len(doc.Requirements) == 0 {
		return nil, fmt.Errorf("requirement catalog is empty")
	}

	c := &Catalog{
		requirements: doc.Requirements,
		byID:         make(map[string]model.Requirement, len(doc.Requirements)),
	}
	for _, req := range doc.Requirements {
		if req.ID == "" {
			return nil, fmt.Errorf("requirement with empty id in catalog")
		}
		if _, dup := c.byID[req.ID]; dup {
			return nil, fmt.Errorf("duplicate requirement id %q in catalog", req.ID)
		}
		switch req.Severity {
		case model.SeverityCritical, model.SeverityError, model.SeverityWarning:
		default:
			return nil, fmt.Errorf("requirement %s has unknown severity %q", req.ID, req.Severity)
		}
		c.byID[req.ID] = req
	}
	return c, nil
}

// All returns the catalog requirements in catalog order
func (c *Catalog) All() []model.Requirement {
	out := make([]model.Requirement, len(c.requirements))
	copy(out, c.requirements)
	return out
}

// Get looks up one requirement by canonical ID
func (c *Catalog) Get(id string) (model.Requirement, bool) {
	req, ok := c.byID[id]
	return req, ok
}

// Size is the number of catalog requirements
func (c *Catalog) Size() int {
	return len(c.requirements)
}
