package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/peplab/pkg/catalog"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	VisitedRoutes []string
	CurrentRoute  string
}

// GenerateMermaid produces a Mermaid flowchart of the page hierarchy:
// home, dashboard, workflow hubs and their methods. Shapes:
// - Home: ((Circle))
// - Hub: [[Subroutine]]
// - Method: ([Stadium])
// - Default: [Rectangle]
// Dashboard panels that are not hubs are drawn with a dotted edge.
func GenerateMermaid(workflows []catalog.Workflow, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	writeNode(&sb, "/", "Home", "((", "))")
	writeNode(&sb, "/dashboard", "Dashboard", "[", "]")
	writeEdge(&sb, "/", "/dashboard", "-->")

	for _, wf := range workflows {
		if len(wf.Methods) == 0 {
			writeNode(&sb, wf.Route, wf.Title, "[", "]")
			writeEdge(&sb, "/dashboard", wf.Route, "-.->")
			continue
		}
		writeNode(&sb, wf.Route, wf.Title, "[[", "]]")
		writeEdge(&sb, "/dashboard", wf.Route, "-->")
		for _, m := range wf.Methods {
			writeNode(&sb, m.Route, m.Name, "([", "])")
			writeEdge(&sb, wf.Route, m.Route, "-->")
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, route := range overlay.VisitedRoutes {
			id := sanitizeMermaidID(route)
			if !seen[id] && id != "" {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}
		if overlay.CurrentRoute != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentRoute))
		}
	}

	return sb.String()
}

func writeNode(sb *strings.Builder, route, label, opener, closer string) {
	safeLabel := strings.ReplaceAll(label, "\"", "'")
	fmt.Fprintf(sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(route), opener, safeLabel, closer)
}

func writeEdge(sb *strings.Builder, from, to, arrow string) {
	fmt.Fprintf(sb, "    %s %s %s\n", sanitizeMermaidID(from), arrow, sanitizeMermaidID(to))
}

// sanitizeMermaidID turns a route into a node ID; "/" becomes "home".
func sanitizeMermaidID(route string) string {
	s := strings.Trim(route, "/")
	if s == "" {
		if route == "" {
			return ""
		}
		return "home"
	}
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "__")
	return s
}
