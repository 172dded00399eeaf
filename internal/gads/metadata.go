package gads

import (
	"embed"
	"encoding/json"
	"fmt"
)

// resourcesFilename is the generated field catalogue bundled with the
// binary; a search/validation layer consults it instead of the API.
const resourcesFilename = "gaql_resources.json"

//go:embed gaql_resources.json
var resourcesFS embed.FS

// Resource describes one queryable reporting resource and its selectable
// field paths.
type Resource struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// Metadata is the parsed reporting field catalogue.
type Metadata struct {
	resources map[string]Resource
	fields    map[string]bool
}

// LoadMetadata parses the embedded catalogue. A broken bundle is a build
// defect, so callers should treat an error here as fatal.
func LoadMetadata() (*Metadata, error) {
	raw, err := resourcesFS.ReadFile(resourcesFilename)
	if err != nil {
		return nil, fmt.Errorf("reading embedded %s: %w", resourcesFilename, err)
	}

	var list []Resource
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", resourcesFilename, err)
	}

	m := &Metadata{
		resources: make(map[string]Resource, len(list)),
		fields:    make(map[string]bool),
	}
	for _, r := range list {
		m.resources[r.Name] = r
		for _, f := range r.Fields {
			m.fields[f] = true
		}
	}
	return m, nil
}

// Resource looks up one resource by name.
func (m *Metadata) Resource(name string) (Resource, bool) {
	r, ok := m.resources[name]
	return r, ok
}

// KnownField reports whether a field path appears anywhere in the
// catalogue. Validation built on this is advisory: the catalogue is a
// snapshot and the API remains the source of truth.
func (m *Metadata) KnownField(path string) bool {
	return m.fields[path]
}

// ResourceNames returns every catalogued resource name.
func (m *Metadata) ResourceNames() []string {
	names := make([]string, 0, len(m.resources))
	for name := range m.resources {
		names = append(names, name)
	}
	return names
}
