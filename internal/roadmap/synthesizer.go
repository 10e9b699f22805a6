package roadmap

import (
	"fmt"

	"github.com/swaggyashwin/pathfinder/internal/career"
	"github.com/swaggyashwin/pathfinder/internal/model"
)

// TargetLevelPrefix is prepended to the category name to form the target level.
const TargetLevelPrefix = "Professional-level "

// Synthesizer composes a resolver and a template store into roadmaps.
type Synthesizer struct {
	resolver *career.Resolver
	store    *TemplateStore
}

// NewSynthesizer creates a synthesizer. Every category the resolver can
// produce must have a template in the store.
func NewSynthesizer(resolver *career.Resolver, store *TemplateStore) (*Synthesizer, error) {
	for _, c := range resolver.Categories() {
		if _, ok := store.templates[c]; !ok {
			return nil, fmt.Errorf("no roadmap template for category %q", c)
		}
	}
	return &Synthesizer{resolver: resolver, store: store}, nil
}

// Synthesize resolves the career category of trigger and returns a fresh
// roadmap built from its template.
func (s *Synthesizer) Synthesize(trigger string) (model.Roadmap, career.Category) {
	c := s.resolver.Resolve(trigger)
	return s.ForCategory(c), c
}

// ForCategory returns a fresh roadmap for c. c must have a template; this is
// guaranteed for every category the resolver yields.
func (s *Synthesizer) ForCategory(c career.Category) model.Roadmap {
	rm, ok := s.store.Get(c)
	if !ok {
		panic(fmt.Sprintf("roadmap: missing template for category %q", c))
	}
	rm.CareerGoal = c.DisplayName()
	rm.TargetLevel = TargetLevelPrefix + c.DisplayName()
	return rm
}
