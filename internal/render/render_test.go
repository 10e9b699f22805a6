package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/swaggyashwin/pathfinder/internal/model"
)

func sampleRoadmap() *model.Roadmap {
	return &model.Roadmap{
		CareerGoal:        "UX Designer",
		TargetLevel:       "Professional-level UX Designer",
		EstimatedTimeline: "9-12 months",
		Difficulty:        "Intermediate",
		Overview:          "A path into product design.",
		Phases: []model.Phase{
			{
				PhaseID:    1,
				Title:      "Foundations",
				Duration:   "2 months",
				Objectives: []string{"Learn design principles"},
				Skills:     []string{"Figma", "Wireframing"},
				Resources: []model.Resource{
					{Name: "Google UX Certificate", Type: model.ResourceCertification, Priority: model.PriorityEssential, URL: "https://example.com/ux"},
				},
				Milestones: []string{"Ship a case study"},
			},
			{
				PhaseID:    2,
				Title:      "Portfolio",
				Milestones: []string{"Publish portfolio", "Apply to 10 roles"},
			},
		},
		KeyTechnologies: []string{"Figma"},
		CareerPaths:     []string{"UX Designer", "Product Designer"},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleRoadmap())

	assert.True(t, strings.HasPrefix(md, "# UX Designer\n"))
	assert.Contains(t, md, "| 9-12 months | Intermediate | 2 | 3 |")
	assert.Contains(t, md, "**Target Level:** Professional-level UX Designer")
	assert.Contains(t, md, "## Core Technologies\n\n- Figma")
	assert.Contains(t, md, "### Phase 1: Foundations")
	assert.Contains(t, md, "_Phase 2 of 2_")
	assert.Contains(t, md, "- [ESSENTIAL] **[Google UX Certificate](https://example.com/ux)** (Certification)")
	assert.Contains(t, md, "- [ ] Apply to 10 roles")
	assert.Contains(t, md, "## Career Paths\n\n1. UX Designer\n2. Product Designer")
	assert.NotContains(t, md, "Certifications")
	assert.NotContains(t, md, "Salary Range")
}

func TestMarkdown_EmptyGoal(t *testing.T) {
	md := Markdown(&model.Roadmap{Phases: []model.Phase{{PhaseID: 1, Title: "Start"}}})
	assert.True(t, strings.HasPrefix(md, "# Career Roadmap\n"))
	assert.Contains(t, md, "| N/A | N/A | 1 | 0 |")
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":         FormatJSON,
		"JSON":     FormatJSON,
		"yml":      FormatYAML,
		"yaml":     FormatYAML,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	rm := sampleRoadmap()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rm, FormatJSON))
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, "UX Designer", fromJSON["career_goal"])

	buf.Reset()
	require.NoError(t, Encode(&buf, rm, FormatYAML))
	var fromYAML model.Roadmap
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, rm.Phases[0].Resources[0].Priority, fromYAML.Phases[0].Resources[0].Priority)
	assert.Equal(t, rm.MilestoneCount(), fromYAML.MilestoneCount())

	buf.Reset()
	require.NoError(t, Encode(&buf, rm, FormatMarkdown))
	assert.Equal(t, Markdown(rm), buf.String())

	assert.Error(t, Encode(&buf, rm, Format("pdf")))
}

func TestTerminal_Roadmap(t *testing.T) {
	term, err := NewTerminal(80)
	require.NoError(t, err)

	out, err := term.Roadmap(sampleRoadmap())
	require.NoError(t, err)
	assert.Contains(t, out, "UX Designer")
	assert.Contains(t, out, "Foundations")
}
