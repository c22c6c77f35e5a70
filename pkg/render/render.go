// Package render formats loop reports for terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ormasoftchile/uiloop/pkg/report"
	"github.com/ormasoftchile/uiloop/pkg/schema"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	headStyle = lipgloss.NewStyle().Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Report renders a loop report as styled terminal text.
func Report(r *report.Report) string {
	var b strings.Builder

	b.WriteString(headStyle.Render(describeLoop(r.Loop)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(describeAction(r.Action)))
	b.WriteString("\n")

	for _, rec := range r.Summary.Evidence {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d. %s", rec.Iteration, rec.Message)))
		b.WriteString("\n")
	}

	for _, c := range r.Checks {
		mark := passStyle.Render("✓")
		if !c.Passed {
			mark = failStyle.Render("✗")
		}
		b.WriteString(fmt.Sprintf("  %s %s (expected %s, got %s)\n", mark, c.Message, c.Expected, c.Actual))
	}

	status := passStyle.Render("PASS")
	if r.Summary.Status != "pass" {
		status = failStyle.Render("FAIL")
	}
	b.WriteString(fmt.Sprintf("%s — %d iterations\n", status, r.Summary.Total))

	return b.String()
}

func describeLoop(l schema.LoopSpec) string {
	switch l.Type {
	case schema.LoopFor:
		n := 0
		if l.Iterations != nil {
			n = *l.Iterations
		}
		return fmt.Sprintf("for ×%d", n)
	case schema.LoopWhile, schema.LoopDoWhile:
		if l.Until != nil {
			cond := string(l.Until.Assertion)
			if l.Until.Negate {
				cond = "not " + cond
			}
			return fmt.Sprintf("%s until %s %s", l.Type, l.Until.Target.Selector, cond)
		}
		return string(l.Type)
	default:
		return string(l.Type)
	}
}

func describeAction(a schema.ActionSpec) string {
	if a.Value != "" {
		return fmt.Sprintf("%s %s %q", a.Type, a.Target.Selector, a.Value)
	}
	return fmt.Sprintf("%s %s", a.Type, a.Target.Selector)
}
