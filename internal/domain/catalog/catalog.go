package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
)

// SlotCount is the number of worker slots every field has
const SlotCount = 2

// DefaultRole is the job classification a worker needs to work a field
// when the descriptor does not name one.
const DefaultRole = "miner"

// ResourceDescriptor holds the static properties of one extractable resource.
// Descriptors are immutable once placed in a Catalog.
type ResourceDescriptor struct {
	ID                string         `validate:"required"`
	Name              string         `validate:"-"`
	Hardness          float64        `validate:"gt=0"`
	SlotUnlockLevel   [SlotCount]int `validate:"dive,min=0"`
	ReservoirCapacity float64        `validate:"gt=0"`
	RequiredRole      string         `validate:"-"`
}

// Catalog is the read-only set of resources, ordered by depth.
// The position of a resource in the catalog is its depth index.
type Catalog struct {
	order []string
	byID  map[string]ResourceDescriptor
}

// New builds a catalog from descriptors, in depth order.
// Each descriptor is validated and ids must be unique.
func New(descriptors []ResourceDescriptor) (*Catalog, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("catalog must contain at least 1 resource")
	}

	validate := validator.New()
	c := &Catalog{
		order: make([]string, 0, len(descriptors)),
		byID:  make(map[string]ResourceDescriptor, len(descriptors)),
	}

	for i, d := range descriptors {
		if err := validate.Struct(d); err != nil {
			return nil, fmt.Errorf("resource %d (%q) is invalid: %w", i, d.ID, err)
		}
		if _, exists := c.byID[d.ID]; exists {
			return nil, fmt.Errorf("duplicate resource id %q", d.ID)
		}
		if d.RequiredRole == "" {
			d.RequiredRole = DefaultRole
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		c.order = append(c.order, d.ID)
		c.byID[d.ID] = d
	}

	return c, nil
}

// MustNew is New for static catalogs known to be valid
func MustNew(descriptors []ResourceDescriptor) *Catalog {
	c, err := New(descriptors)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of resources
func (c *Catalog) Len() int { return len(c.order) }

// IDs returns resource ids in depth order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Descriptors returns all descriptors in depth order
func (c *Catalog) Descriptors() []ResourceDescriptor {
	result := make([]ResourceDescriptor, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.byID[id])
	}
	return result
}

// Lookup returns the descriptor for id
func (c *Catalog) Lookup(id string) (ResourceDescriptor, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// DepthIndex returns the ordinal of id, or -1 if unknown
func (c *Catalog) DepthIndex(id string) int {
	for i, candidate := range c.order {
		if candidate == id {
			return i
		}
	}
	return -1
}

// Suggest returns known ids close to an unknown one, best match first.
func (c *Catalog) Suggest(id string) []string {
	type scored struct {
		id   string
		dist int
	}

	needle := strings.ToLower(strings.TrimSpace(id))
	if needle == "" {
		return nil
	}

	var matches []scored
	for _, candidate := range c.order {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(candidate))
		if dist <= suggestionLimit(len(candidate)) {
			matches = append(matches, scored{id: candidate, dist: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].dist < matches[j].dist
	})

	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.id)
	}
	return result
}

func suggestionLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
