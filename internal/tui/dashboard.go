// Package tui renders a live progress dashboard for the latency and density
// benchmarks, fed by rows as the benchmark loop produces them.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Row is one emitted CSV line, pushed into the dashboard as it becomes
// available.
type Row struct {
	System  string
	OpType  string
	Value   string
	Failed  bool
}

// RowMsg wraps a Row for delivery through the Bubbletea update loop.
type RowMsg Row

// DoneMsg signals that the benchmark has finished (successfully or not).
type DoneMsg struct{ Err error }

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Dashboard is the Bubbletea model driving the live view.
type Dashboard struct {
	Title string
	rows  []Row
	err   error
	done  bool

	// Next is called by the runtime once at startup (and again each time the
	// dashboard asks for more) to pull the next Row/DoneMsg off the
	// benchmark's event stream.
	Next func() tea.Msg
}

// NewDashboard constructs a Dashboard that pulls events via next.
func NewDashboard(title string, next func() tea.Msg) Dashboard {
	return Dashboard{Title: title, Next: next}
}

func (d Dashboard) Init() tea.Cmd {
	return d.Next
}

func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case RowMsg:
		d.rows = append(d.rows, Row(m))
		return d, d.Next
	case DoneMsg:
		d.done = true
		d.err = m.Err
		return d, tea.Quit
	case tea.KeyMsg:
		if m.String() == "ctrl+c" || m.String() == "q" {
			return d, tea.Quit
		}
	}
	return d, nil
}

func (d Dashboard) View() string {
	var b []byte
	b = append(b, headerStyle.Render(d.Title)...)
	b = append(b, '\n', '\n')

	start := 0
	const maxVisible = 20
	if len(d.rows) > maxVisible {
		start = len(d.rows) - maxVisible
	}
	for _, r := range d.rows[start:] {
		line := fmt.Sprintf("%-22s %-22s %s", r.System, r.OpType, r.Value)
		if r.Failed {
			b = append(b, failStyle.Render(line)...)
		} else {
			b = append(b, okStyle.Render(line)...)
		}
		b = append(b, '\n')
	}

	b = append(b, '\n')
	b = append(b, dimStyle.Render(fmt.Sprintf("%d samples", len(d.rows)))...)
	if d.done {
		if d.err != nil {
			b = append(b, '\n')
			b = append(b, failStyle.Render("failed: "+d.err.Error())...)
		} else {
			b = append(b, '\n')
			b = append(b, okStyle.Render("done")...)
		}
	}
	b = append(b, '\n')
	return string(b)
}
