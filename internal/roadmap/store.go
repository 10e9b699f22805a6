// Package roadmap holds the roadmap templates and synthesizes roadmaps from them.
package roadmap

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/swaggyashwin/pathfinder/internal/career"
	"github.com/swaggyashwin/pathfinder/internal/model"
)

// DefaultTemplates is the embedded template document.
//
//go:embed templates.yaml
var DefaultTemplates []byte

type templateFile struct {
	Templates []templateEntry `yaml:"templates"`
}

type templateEntry struct {
	Category career.Category `yaml:"category"`
	Roadmap  model.Roadmap   `yaml:"roadmap"`
}

// TemplateStore holds one roadmap template per career category. It is
// populated once and never mutated, so concurrent reads need no locking.
type TemplateStore struct {
	templates map[career.Category]model.Roadmap
}

// LoadDefaultStore builds a store from the embedded templates and checks it
// covers exactly the categories of the default resolver.
func LoadDefaultStore() (*TemplateStore, error) {
	return NewTemplateStore(DefaultTemplates, career.NewResolver().Categories())
}

// NewTemplateStore parses a YAML template document. It fails when the set of
// template categories differs from want or any template breaks the roadmap
// invariants.
func NewTemplateStore(data []byte, want []career.Category) (*TemplateStore, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse roadmap templates: %w", err)
	}

	templates := make(map[career.Category]model.Roadmap, len(f.Templates))
	for _, entry := range f.Templates {
		if !entry.Category.Valid() {
			return nil, fmt.Errorf("template for unknown category %q", entry.Category)
		}
		if _, dup := templates[entry.Category]; dup {
			return nil, fmt.Errorf("duplicate template for category %q", entry.Category)
		}
		if err := entry.Roadmap.Validate(); err != nil {
			return nil, fmt.Errorf("invalid template for category %q: %w", entry.Category, err)
		}
		templates[entry.Category] = entry.Roadmap.Clone()
	}

	var missing, extra []string
	for _, c := range want {
		if _, ok := templates[c]; !ok {
			missing = append(missing, string(c))
		}
	}
	for c := range templates {
		if !slices.Contains(want, c) {
			extra = append(extra, string(c))
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		slices.Sort(extra)
		return nil, fmt.Errorf("template categories do not match resolver categories (missing: [%s], unexpected: [%s])",
			strings.Join(missing, ", "), strings.Join(extra, ", "))
	}

	return &TemplateStore{templates: templates}, nil
}

// Get returns an independent copy of the template for c.
func (s *TemplateStore) Get(c career.Category) (model.Roadmap, bool) {
	tmpl, ok := s.templates[c]
	if !ok {
		return model.Roadmap{}, false
	}
	return tmpl.Clone(), true
}
