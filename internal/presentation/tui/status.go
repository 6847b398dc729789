package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(10)
	upStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	downStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// IsTerminal reports whether f is attached to a TTY.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ProbeReport is the result of one backend health probe.
type ProbeReport struct {
	URL     string
	Up      bool
	Err     error
	Elapsed time.Duration
}

// Render formats the report. Plain output has no escape sequences.
func (r ProbeReport) Render(plain bool) string {
	status := "active"
	if !r.Up {
		status = "inactive"
	}
	if plain {
		line := fmt.Sprintf("backend %s %s (%s)", r.URL, status, r.Elapsed.Round(time.Millisecond))
		if r.Err != nil {
			line += ": " + r.Err.Error()
		}
		return line
	}

	styled := upStyle.Render("● " + status)
	if !r.Up {
		styled = downStyle.Render("● " + status)
	}
	out := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("backend")+r.URL,
		labelStyle.Render("status")+styled+" "+mutedStyle.Render(r.Elapsed.Round(time.Millisecond).String()),
	)
	if r.Err != nil {
		out = lipgloss.JoinVertical(lipgloss.Left, out, labelStyle.Render("error")+errStyle.Render(r.Err.Error()))
	}
	return out
}
