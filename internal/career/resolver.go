package career

import (
	"strings"
)

// Rule maps a set of keywords to a category.
type Rule struct {
	Keywords []string
	Category Category
}

// DefaultRules is the rule list used by NewResolver. Order matters: the first
// rule with a matching keyword wins.
var DefaultRules = []Rule{
	{Keywords: []string{"ux", "design"}, Category: UXDesigner},
	{Keywords: []string{"full stack", "web dev"}, Category: FullStackDeveloper},
	{Keywords: []string{"cloud"}, Category: CloudArchitect},
	{Keywords: []string{"machine learning", "ml"}, Category: MLEngineer},
	{Keywords: []string{"data"}, Category: DataScientist},
	{Keywords: []string{"cyber", "security"}, Category: CybersecurityAnalyst},
	{Keywords: []string{"product manager", "pm"}, Category: ProductManager},
}

// Resolver maps free text to a Category by case-insensitive substring matching.
type Resolver struct {
	rules    []Rule
	fallback Category
}

// NewResolver creates a resolver with DefaultRules and the Default fallback.
func NewResolver() *Resolver {
	return NewResolverWithRules(DefaultRules, Default)
}

// NewResolverWithRules creates a resolver over the given ordered rules.
// Keywords are lower-cased once here.
func NewResolverWithRules(rules []Rule, fallback Category) *Resolver {
	compiled := make([]Rule, len(rules))
	for i, r := range rules {
		kws := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kws[j] = strings.ToLower(k)
		}
		compiled[i] = Rule{Keywords: kws, Category: r.Category}
	}
	return &Resolver{rules: compiled, fallback: fallback}
}

// Resolve returns the category of the first rule with a keyword contained in
// text, or the fallback when none matches.
func (r *Resolver) Resolve(text string) Category {
	lower := strings.ToLower(text)
	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return r.fallback
}

// Categories returns the distinct categories the resolver can yield, including
// the fallback, in first-seen order.
func (r *Resolver) Categories() []Category {
	seen := make(map[Category]bool)
	var out []Category
	add := func(c Category) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	add(r.fallback)
	for _, rule := range r.rules {
		add(rule.Category)
	}
	return out
}
