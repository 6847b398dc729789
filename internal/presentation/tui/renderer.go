package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/peplab/pkg/catalog"
)

// NewRenderer returns a function that renders markdown using glamour.
// Plain mode skips styling entirely, for pipes and CI logs.
func NewRenderer(plain bool) (func(string) (string, error), error) {
	if plain {
		return func(markdown string) (string, error) { return markdown, nil }, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// RoutesMarkdown lays out every workflow and its methods as markdown tables.
func RoutesMarkdown(workflows []catalog.Workflow) string {
	var sb strings.Builder
	sb.WriteString("# Routes\n\n")
	sb.WriteString("| Route | Page |\n|---|---|\n")
	sb.WriteString("| `/` | Home |\n")
	sb.WriteString("| `/dashboard` | Dashboard |\n")
	for _, wf := range workflows {
		fmt.Fprintf(&sb, "| `%s` | %s |\n", wf.Route, wf.Title)
	}

	for _, wf := range workflows {
		if len(wf.Methods) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", wf.Title)
		sb.WriteString("| Route | Method | Description |\n|---|---|---|\n")
		for _, m := range wf.Methods {
			fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", m.Route, m.Name, m.Description)
		}
	}
	return sb.String()
}
