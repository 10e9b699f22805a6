package model

import (
	"fmt"
	"slices"
)

// Priority classifies how important a resource is within a phase.
type Priority string

const (
	PriorityEssential   Priority = "Essential"
	PriorityRecommended Priority = "Recommended"
	PriorityOptional    Priority = "Optional"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityEssential, PriorityRecommended, PriorityOptional:
		return true
	}
	return false
}

// ResourceType is the kind of learning resource.
type ResourceType string

const (
	ResourceCourse        ResourceType = "Course"
	ResourceProject       ResourceType = "Project"
	ResourceBook          ResourceType = "Book"
	ResourceArticle       ResourceType = "Article"
	ResourceCertification ResourceType = "Certification"
	ResourceCommunity     ResourceType = "Community"
	ResourceTool          ResourceType = "Tool"
)

// Resource is a learning resource recommended in a phase.
type Resource struct {
	Name        string       `json:"name" yaml:"name"`
	Type        ResourceType `json:"type" yaml:"type"`
	Description string       `json:"description" yaml:"description"`
	Priority    Priority     `json:"priority" yaml:"priority"`
	URL         string       `json:"url" yaml:"url"`
}

// Phase is one stage of a roadmap. Phase N builds on phase N-1.
type Phase struct {
	PhaseID       int        `json:"phase_id" yaml:"phase_id"`
	Title         string     `json:"title" yaml:"title"`
	Description   string     `json:"description" yaml:"description"`
	Duration      string     `json:"duration" yaml:"duration"`
	Prerequisites []string   `json:"prerequisites" yaml:"prerequisites"`
	Objectives    []string   `json:"objectives" yaml:"objectives"`
	Skills        []string   `json:"skills" yaml:"skills"`
	Resources     []Resource `json:"resources" yaml:"resources"`
	Milestones    []string   `json:"milestones" yaml:"milestones"`
	Projects      []string   `json:"projects" yaml:"projects"`
}

// Roadmap is a structured multi-phase career plan.
type Roadmap struct {
	CareerGoal             string   `json:"career_goal" yaml:"career_goal"`
	CurrentLevel           string   `json:"current_level" yaml:"current_level"`
	TargetLevel            string   `json:"target_level" yaml:"target_level"`
	EstimatedTimeline      string   `json:"estimated_timeline" yaml:"estimated_timeline"`
	Difficulty             string   `json:"difficulty" yaml:"difficulty"`
	Overview               string   `json:"overview" yaml:"overview"`
	Phases                 []Phase  `json:"phases" yaml:"phases"`
	KeyTechnologies        []string `json:"key_technologies" yaml:"key_technologies"`
	CareerPaths            []string `json:"career_paths" yaml:"career_paths"`
	SalaryRange            string   `json:"salary_range" yaml:"salary_range"`
	IndustryDemand         string   `json:"industry_demand" yaml:"industry_demand"`
	RequiredCertifications []string `json:"required_certifications" yaml:"required_certifications"`
	NetworkingTips         []string `json:"networking_tips" yaml:"networking_tips"`
	SuccessMetrics         []string `json:"success_metrics" yaml:"success_metrics"`
}

// Clone returns a deep copy of r that shares no storage with it.
func (r *Roadmap) Clone() Roadmap {
	out := *r
	out.Phases = make([]Phase, len(r.Phases))
	for i, p := range r.Phases {
		out.Phases[i] = p.clone()
	}
	out.KeyTechnologies = cloneStrings(r.KeyTechnologies)
	out.CareerPaths = cloneStrings(r.CareerPaths)
	out.RequiredCertifications = cloneStrings(r.RequiredCertifications)
	out.NetworkingTips = cloneStrings(r.NetworkingTips)
	out.SuccessMetrics = cloneStrings(r.SuccessMetrics)
	return out
}

func (p Phase) clone() Phase {
	p.Prerequisites = cloneStrings(p.Prerequisites)
	p.Objectives = cloneStrings(p.Objectives)
	p.Skills = cloneStrings(p.Skills)
	p.Milestones = cloneStrings(p.Milestones)
	p.Projects = cloneStrings(p.Projects)
	p.Resources = slices.Clone(p.Resources)
	if p.Resources == nil {
		p.Resources = []Resource{}
	}
	return p
}

// cloneStrings copies s, normalising nil to an empty slice so encoders emit [].
func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

// Validate checks the structural invariants of a roadmap: at least one phase,
// phase ids contiguous from 1, and known resource priorities.
func (r *Roadmap) Validate() error {
	if len(r.Phases) == 0 {
		return fmt.Errorf("roadmap has no phases")
	}
	for i, p := range r.Phases {
		if p.PhaseID != i+1 {
			return fmt.Errorf("phase %d has id %d, want %d", i, p.PhaseID, i+1)
		}
		for _, res := range p.Resources {
			if !res.Priority.Valid() {
				return fmt.Errorf("phase %d resource %q has unknown priority %q", p.PhaseID, res.Name, res.Priority)
			}
		}
	}
	return nil
}

// MilestoneCount returns the number of milestones across all phases.
func (r *Roadmap) MilestoneCount() int {
	var n int
	for _, p := range r.Phases {
		n += len(p.Milestones)
	}
	return n
}
