package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pvaldov/clauseguard/internal/model"
)

// Renderer writes analysis reports to JSON and Markdown files and
// prints a terminal summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a human-readable Markdown file
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Clause Analysis: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- **Source**: %s\n", report.Source)
	fmt.Fprintf(&b, "- **Analyzed**: %s\n", report.AnalyzedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "- **Strategy**: %s", report.Strategy)
	if report.Fallback {
		b.WriteString(" (paragraph fallback)")
	}
	b.WriteString("\n")
	if report.LLM != nil {
		fmt.Fprintf(&b, "- **Scored by**: %s/%s\n", report.LLM.Provider, report.LLM.Model)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Overview\n\n")
	fmt.Fprintf(&b, "| Clauses | Scored | Failed | Max danger | Mean danger |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %.1f |\n\n",
		report.Stats.ClauseCount, report.Stats.ScoredCount, report.Stats.FailedCount,
		report.Stats.MaxDanger, report.Stats.MeanDanger)

	fmt.Fprintf(&b, "## Clauses\n\n")
	for _, c := range report.Clauses {
		fmt.Fprintf(&b, "### Clause %d", c.Index+1)
		if c.Status == model.StatusSucceeded {
			fmt.Fprintf(&b, " — danger %d/100 (%s)", c.DangerScore, model.BandForScore(c.DangerScore))
		}
		b.WriteString("\n\n")

		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(c.Text, "\n", "\n> "))

		switch c.Status {
		case model.StatusSucceeded:
			fmt.Fprintf(&b, "**Summary**: %s\n\n", c.Summary)
			fmt.Fprintf(&b, "**Risk**: %s\n\n", c.RiskReason)
		case model.StatusFailed:
			fmt.Fprintf(&b, "**Summary**: %s\n\n", c.Summary)
			fmt.Fprintf(&b, "**Risk**: %s\n\n", c.RiskReason)
		default:
			b.WriteString("*Not scored.*\n\n")
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("Generated by ClauseGuard. Risk scores are heuristic aids, not legal advice.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write Markdown report: %w", err)
	}
	return nil
}

// RenderSummary prints a one-screen report summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\n%s\n", report.Subject)
	fmt.Printf("  Clauses:     %d\n", report.Stats.ClauseCount)
	if report.Stats.ScoredCount > 0 {
		fmt.Printf("  Scored:      %d\n", report.Stats.ScoredCount)
		fmt.Printf("  Max danger:  %d/100\n", report.Stats.MaxDanger)
		if report.Stats.RiskiestIdx >= 0 {
			riskiest := report.Clauses[report.Stats.RiskiestIdx]
			fmt.Printf("  Riskiest:    clause %d: %s\n", riskiest.Index+1, truncate(riskiest.Summary, 80))
		}
	}
	if report.Stats.FailedCount > 0 {
		fmt.Printf("  Failed:      %d\n", report.Stats.FailedCount)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
