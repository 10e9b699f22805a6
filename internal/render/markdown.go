package render

import (
	"fmt"
	"strings"

	"github.com/swaggyashwin/pathfinder/internal/model"
)

// Markdown renders rm as a Markdown document: header and summary table,
// journey overview, key information, one section per phase, then career
// paths, networking tips and success metrics. Empty sections are skipped.
func Markdown(rm *model.Roadmap) string {
	var b strings.Builder

	title := rm.CareerGoal
	if title == "" {
		title = "Career Roadmap"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if rm.Overview != "" {
		fmt.Fprintf(&b, "> %s\n\n", rm.Overview)
	}

	b.WriteString("| Timeline | Difficulty | Phases | Milestones |\n")
	b.WriteString("|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %s | %d | %d |\n\n",
		orNA(rm.EstimatedTimeline), orNA(rm.Difficulty), len(rm.Phases), rm.MilestoneCount())

	if rm.CurrentLevel != "" || rm.TargetLevel != "" {
		b.WriteString("## Journey Overview\n\n")
		if rm.CurrentLevel != "" {
			fmt.Fprintf(&b, "**Starting Point:** %s\n\n", rm.CurrentLevel)
		}
		if rm.TargetLevel != "" {
			fmt.Fprintf(&b, "**Target Level:** %s\n\n", rm.TargetLevel)
		}
	}

	bullets(&b, "Core Technologies", rm.KeyTechnologies)
	bullets(&b, "Certifications", rm.RequiredCertifications)
	paragraph(&b, "Market Insights", rm.IndustryDemand)
	paragraph(&b, "Salary Range", rm.SalaryRange)

	b.WriteString("## Learning Phases\n\n")
	for i, p := range rm.Phases {
		writePhase(&b, p, i+1, len(rm.Phases))
	}

	numbered(&b, "## Career Paths", rm.CareerPaths)
	bullets(&b, "Networking", rm.NetworkingTips)
	bullets(&b, "Success Metrics", rm.SuccessMetrics)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writePhase(b *strings.Builder, p model.Phase, n, total int) {
	fmt.Fprintf(b, "### Phase %d: %s\n\n", p.PhaseID, p.Title)
	fmt.Fprintf(b, "_Phase %d of %d_", n, total)
	if p.Duration != "" {
		fmt.Fprintf(b, " · **Duration:** %s", p.Duration)
	}
	fmt.Fprintf(b, " · **Skills:** %d\n\n", len(p.Skills))

	if p.Description != "" {
		fmt.Fprintf(b, "%s\n\n", p.Description)
	}
	if len(p.Prerequisites) > 0 {
		fmt.Fprintf(b, "**Prerequisites:** %s\n\n", strings.Join(p.Prerequisites, ", "))
	}
	numbered(b, "**Objectives**", p.Objectives)
	if len(p.Skills) > 0 {
		fmt.Fprintf(b, "**Skills:** `%s`\n\n", strings.Join(p.Skills, "` `"))
	}
	if len(p.Resources) > 0 {
		b.WriteString("**Resources**\n\n")
		for _, r := range p.Resources {
			name := r.Name
			if r.URL != "" {
				name = fmt.Sprintf("[%s](%s)", r.Name, r.URL)
			}
			fmt.Fprintf(b, "- [%s] **%s** (%s)", strings.ToUpper(string(r.Priority)), name, r.Type)
			if r.Description != "" {
				fmt.Fprintf(b, ": %s", r.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	numbered(b, "**Projects**", p.Projects)
	if len(p.Milestones) > 0 {
		b.WriteString("**Milestones**\n\n")
		for _, m := range p.Milestones {
			fmt.Fprintf(b, "- [ ] %s\n", m)
		}
		b.WriteString("\n")
	}
}

func bullets(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func numbered(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n\n", heading)
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
	b.WriteString("\n")
}

func paragraph(b *strings.Builder, heading, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", heading, text)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
