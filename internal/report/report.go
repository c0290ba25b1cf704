// Package report prints run progress and the final summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
	"github.com/similigh/assign-merged-prs/internal/core/state"
	"github.com/similigh/assign-merged-prs/internal/runner"
)

var (
	primaryColor = lipgloss.Color("#ff7300")
	subtleColor  = lipgloss.Color("#626262")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF0000")

	headingStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	loginStyle = lipgloss.NewStyle().
			Width(24)

	countStyle = lipgloss.NewStyle().
			Foreground(successColor)

	subtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

var _ pipeline.Reporter = (*Plain)(nil)

// Plain writes each progress line as is.
type Plain struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPlain creates a Plain reporter writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

// Line writes text followed by a newline.
func (p *Plain) Line(_ int, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, text)
}

// Render writes the summary of a run to w.
func Render(w io.Writer, rep *runner.Report) error {
	var b strings.Builder

	b.WriteString("\n")
	writeCounts(&b, "PR authors", rep.Authors)
	b.WriteString("\n")
	writeCounts(&b, "Assignees", rep.Assignees)

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Summary"))
	b.WriteString("\n")
	writeTotal(&b, "Processed", rep.Processed)
	writeTotal(&b, "Qualified", rep.Qualified)
	writeTotal(&b, "Assigned", rep.Assigned)
	writeTotal(&b, "Labeled", rep.Labeled)
	writeTotal(&b, "Skipped (assignee)", rep.SkippedAssignee)
	writeTotal(&b, "Skipped (label)", rep.SkippedLabel)
	writeTotal(&b, "Errors", len(rep.Errors))
	if rep.DryRun {
		b.WriteString(subtleStyle.Render("Dry run: no changes were made on GitHub"))
		b.WriteString("\n")
	}

	for _, e := range rep.Errors {
		b.WriteString(errorStyle.Render("  " + e))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCounts(b *strings.Builder, title string, entries []state.Entry) {
	b.WriteString(headingStyle.Render(title))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(subtleStyle.Render("  (none)"))
		b.WriteString("\n")
		return
	}
	for _, e := range entries {
		b.WriteString("  ")
		b.WriteString(loginStyle.Render(e.Login))
		b.WriteString(countStyle.Render(fmt.Sprintf("%d", e.Count)))
		b.WriteString("\n")
	}
}

func writeTotal(b *strings.Builder, label string, n int) {
	b.WriteString("  ")
	b.WriteString(loginStyle.Render(label + ":"))
	b.WriteString(fmt.Sprintf("%d", n))
	b.WriteString("\n")
}
