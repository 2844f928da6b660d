// Package dialogue answers normalized user utterances about a real
// estate portfolio. It resolves fuzzy project, category, and attribute
// mentions, tracks conversation state across turns, and renders
// bilingual English/Hindi replies from a YAML fact sheet.
package dialogue

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project is one entry in the fact sheet.
type Project struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Config   string `yaml:"config"`
	Price    string `yaml:"price"`
	Floors   string `yaml:"floors"`
	Towers   string `yaml:"towers"`
}

// Facts is the tenant's domain knowledge: projects keyed by canonical
// key, category membership lists, and the WhatsApp contact number.
type Facts struct {
	Tenant     string              `yaml:"tenant"`
	Phone      string              `yaml:"phone"`
	Projects   map[string]Project  `yaml:"projects"`
	Categories map[string][]string `yaml:"categories"`
}

// LoadFacts reads and validates a YAML fact sheet.
func LoadFacts(path string) (*Facts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("facts: open %q: %w", path, err)
	}
	defer f.Close()

	facts, err := LoadFactsFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("facts: parse %q: %w", path, err)
	}
	return facts, nil
}

// LoadFactsFromReader decodes a YAML fact sheet from r and validates it.
func LoadFactsFromReader(r io.Reader) (*Facts, error) {
	facts := &Facts{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(facts); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := facts.validate(); err != nil {
		return nil, err
	}
	return facts, nil
}

func (f *Facts) validate() error {
	if len(f.Projects) == 0 {
		return fmt.Errorf("no projects defined")
	}
	if f.Phone == "" {
		f.Phone = "9999999999"
	}
	for cat, keys := range f.Categories {
		for _, k := range keys {
			if _, ok := f.Projects[k]; !ok {
				return fmt.Errorf("category %q lists unknown project %q", cat, k)
			}
		}
	}
	return nil
}

// DisplayName returns the project's display name, falling back to the
// title-cased key for projects missing one.
func (f *Facts) DisplayName(key string) string {
	if p, ok := f.Projects[key]; ok && p.Name != "" {
		return p.Name
	}
	if key == "" {
		return ""
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

// CategoryOf returns the category of a project key, or "".
func (f *Facts) CategoryOf(key string) string {
	return f.Projects[key].Category
}

// Attribute returns the named field of a project, or "".
func (p Project) Attribute(attr string) string {
	switch attr {
	case "price":
		return p.Price
	case "config":
		return p.Config
	case "floors":
		return p.Floors
	case "towers":
		return p.Towers
	}
	return ""
}

// prettyList renders category members as a comma-separated list of
// display names.
func (f *Facts) prettyList(keys []string) string {
	if len(keys) == 0 {
		return "—"
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = f.DisplayName(k)
	}
	return strings.Join(names, ", ")
}
