// Package career resolves free text to one of a fixed set of career categories.
package career

import (
	"fmt"
	"strings"
)

// Category is a career track used to select a roadmap template.
type Category string

const (
	DataScientist        Category = "data_scientist"
	UXDesigner           Category = "ux_designer"
	FullStackDeveloper   Category = "full_stack_developer"
	CloudArchitect       Category = "cloud_architect"
	MLEngineer           Category = "ml_engineer"
	CybersecurityAnalyst Category = "cybersecurity_analyst"
	ProductManager       Category = "product_manager"
)

// Default is the category used when no keyword matches.
const Default = DataScientist

var displayNames = map[Category]string{
	DataScientist:        "Data Scientist",
	UXDesigner:           "UX Designer",
	FullStackDeveloper:   "Full Stack Developer",
	CloudArchitect:       "Cloud Architect",
	MLEngineer:           "Machine Learning Engineer",
	CybersecurityAnalyst: "Cybersecurity Analyst",
	ProductManager:       "Product Manager",
}

// All returns every category in declaration order.
func All() []Category {
	return []Category{
		DataScientist,
		UXDesigner,
		FullStackDeveloper,
		CloudArchitect,
		MLEngineer,
		CybersecurityAnalyst,
		ProductManager,
	}
}

// DisplayName returns the human readable name of the category.
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	_, ok := displayNames[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory parses an identifier or display name into a Category.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range All() {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.DisplayName()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown career category %q", s)
}
