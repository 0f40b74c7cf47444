package devstack

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Summary is the access-point banner printed once the stack is up.
type Summary struct {
	FrontendURL string
	BackendURL  string
	DocsURL     string
	Services    []string
	LogsCommand string
	StopCommand string
}

// Write renders the banner for w. Colors are only emitted when w is a terminal.
func (s Summary) Write(w io.Writer) {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	label := r.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	row := func(name, value string) {
		fmt.Fprintf(w, "   %s %s\n", label.Render(fmt.Sprintf("%-12s", name+":")), value)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, title.Render("✅ Application started"))
	fmt.Fprintln(w)
	row("Frontend", s.FrontendURL)
	row("Backend API", s.BackendURL)
	row("API Docs", s.DocsURL)
	if len(s.Services) > 0 {
		row("Services", strings.Join(s.Services, ", "))
	}
	fmt.Fprintln(w)
	row("View logs", s.LogsCommand)
	row("Stop", s.StopCommand)
}
