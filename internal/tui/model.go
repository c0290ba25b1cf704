// Package tui renders run progress interactively.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/similigh/assign-merged-prs/internal/core/pipeline"
)

// Brand color
var (
	primaryColor = lipgloss.Color("#ff7300")
	subtleColor  = lipgloss.Color("#626262")
	successColor = lipgloss.Color("#04B575")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	activeStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(successColor)

	logStyle = lipgloss.NewStyle().
			Foreground(subtleColor)
)

// visibleLines is how many progress lines the view keeps on screen.
const visibleLines = 5

// ProgressMsg is one narration line about a PR. Number is 0 for run-level lines.
type ProgressMsg struct {
	Number int
	Line   string
}

// DoneMsg is sent when the progress channel is closed.
type DoneMsg struct{}

// Model for the TUI.
type Model struct {
	spinner    spinner.Model
	title      string
	current    int
	prs        map[int]bool
	lines      []string
	quitting   bool
	done       bool
	statusChan <-chan ProgressMsg
}

// NewModel creates a new TUI model.
func NewModel(title string, statusChan <-chan ProgressMsg) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		spinner:    s,
		title:      title,
		prs:        make(map[int]bool),
		statusChan: statusChan,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForActivity(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		if msg.Number != 0 {
			m.current = msg.Number
			m.prs[msg.Number] = true
		}
		m.lines = append(m.lines, msg.Line)
		return m, m.waitForActivity()

	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.statusChan
		if !ok {
			return DoneMsg{}
		}
		return msg
	}
}

// Quitting reports whether the user asked to quit before the run finished.
func (m Model) Quitting() bool {
	return m.quitting
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting || m.done {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render(m.title))
	s.WriteString("\n\n")

	if m.current != 0 {
		s.WriteString(activeStyle.Render(fmt.Sprintf("%s PR #%d", m.spinner.View(), m.current)))
	} else {
		s.WriteString(activeStyle.Render(m.spinner.View() + " Listing pull requests"))
	}
	s.WriteString("\n")
	s.WriteString(doneStyle.Render(fmt.Sprintf("%d PRs narrated", len(m.prs))))
	s.WriteString("\n\n")

	start := 0
	if len(m.lines) > visibleLines {
		start = len(m.lines) - visibleLines
	}
	for _, line := range m.lines[start:] {
		s.WriteString(logStyle.Render(line) + "\n")
	}

	s.WriteString(logStyle.Render("\nPress q to quit\n"))

	return s.String()
}

var _ pipeline.Reporter = (*Reporter)(nil)

// Reporter forwards progress lines to the model and keeps a copy of each.
type Reporter struct {
	ctx  context.Context
	ch   chan<- ProgressMsg
	mu   sync.Mutex
	kept []string
}

// NewReporter creates a Reporter sending on ch until ctx is done.
func NewReporter(ctx context.Context, ch chan<- ProgressMsg) *Reporter {
	return &Reporter{ctx: ctx, ch: ch}
}

// Line sends text to the model. It drops the message once ctx is done.
func (r *Reporter) Line(number int, text string) {
	r.mu.Lock()
	r.kept = append(r.kept, text)
	r.mu.Unlock()

	select {
	case r.ch <- ProgressMsg{Number: number, Line: text}:
	case <-r.ctx.Done():
	}
}

// Lines returns every line received so far.
func (r *Reporter) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.kept...)
}
