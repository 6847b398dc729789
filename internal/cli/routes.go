package cli

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/peplab/internal/presentation/graph"
	"github.com/aretw0/peplab/internal/presentation/tui"
	"github.com/aretw0/peplab/pkg/catalog"
	"github.com/aretw0/peplab/pkg/domain"
)

// WriteRoutes prints the route catalog as markdown (rendered unless plain) or YAML.
func WriteRoutes(w io.Writer, format string, plain bool) error {
	workflows := catalog.Workflows()

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(workflows); err != nil {
			return fmt.Errorf("failed to encode routes: %w", err)
		}
		return enc.Close()
	case "md", "":
		render, err := tui.NewRenderer(plain)
		if err != nil {
			return err
		}
		out, err := render(tui.RoutesMarkdown(workflows))
		if err != nil {
			return fmt.Errorf("failed to render routes: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return fmt.Errorf("unknown format %q (want md or yaml)", format)
}

// WriteGraph prints the page hierarchy as Mermaid, overlaid with the
// session's visited routes when snap is not nil.
func WriteGraph(w io.Writer, snap *domain.Snapshot) error {
	var overlay *graph.GraphOverlay
	if snap != nil {
		overlay = &graph.GraphOverlay{
			VisitedRoutes: snap.History,
			CurrentRoute:  snap.CurrentRoute(),
		}
	}
	_, err := io.WriteString(w, graph.GenerateMermaid(catalog.Workflows(), overlay))
	return err
}
