package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Catalog is a read-only shape-key lookup table, loaded once per run.
// Unknown shape keys are a "cannot recommend" answer, never a failure.
type Catalog struct {
	entries map[string]models.CatalogEntry
	sorted  []models.CatalogEntry
}

// New builds a catalog from entries. Later duplicates of a shape key
// replace earlier ones.
func New(entries []models.CatalogEntry) *Catalog {
	c := &Catalog{entries: make(map[string]models.CatalogEntry, len(entries))}
	for _, e := range entries {
		c.entries[e.ShapeKey] = e
	}
	c.sorted = make([]models.CatalogEntry, 0, len(c.entries))
	for _, e := range c.entries {
		c.sorted = append(c.sorted, e)
	}
	sort.Slice(c.sorted, func(i, j int) bool {
		return c.sorted[i].ShapeKey < c.sorted[j].ShapeKey
	})
	return c
}

// Lookup returns the entry for a shape key.
func (c *Catalog) Lookup(shapeKey string) (models.CatalogEntry, bool) {
	e, ok := c.entries[shapeKey]
	return e, ok
}

// Entries returns all entries sorted by shape key. The slice is shared;
// callers must not modify it.
func (c *Catalog) Entries() []models.CatalogEntry {
	return c.sorted
}

// Len is the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

type catalogFile struct {
	Entries []models.CatalogEntry `yaml:"entries"`
}

// LoadFile reads a YAML catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return parseYAML(data)
}

// Default returns the built-in reference catalog.
func Default() *Catalog {
	c, err := parseYAML(defaultsYAML)
	if err != nil {
		// The embedded file is part of the build; a parse failure is a bug.
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

func parseYAML(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("catalog has no entries")
	}
	for _, e := range f.Entries {
		if e.ShapeKey == "" {
			return nil, fmt.Errorf("catalog entry with empty shape key")
		}
		if e.HourlyPrice < 0 {
			return nil, fmt.Errorf("catalog entry %s has negative price", e.ShapeKey)
		}
	}
	return New(f.Entries), nil
}
