package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/peplab/internal/presentation/graph"
	"github.com/aretw0/peplab/pkg/catalog"
)

func TestGenerateMermaid(t *testing.T) {
	got := graph.GenerateMermaid(catalog.Workflows(), nil)

	tests := []struct {
		name string
		want string
	}{
		{"Home Shape", `home(("Home"))`},
		{"Dashboard Edge", "home --> dashboard"},
		{"Hub Shape", `design[["Library Design"]]`},
		{"Hub Edge", "dashboard --> modeling"},
		{"Method Shape", `optimization__mcmc(["Markov Chain Monte Carlo"])`},
		{"Method Edge", "analysis --> analysis__data_analysis"},
		{"Panel Edge", "dashboard -.-> dashboard__settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, got, tt.want)
		})
	}
	assert.True(t, strings.HasPrefix(got, "graph TD\n"))
	assert.NotContains(t, got, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	overlay := &graph.GraphOverlay{
		VisitedRoutes: []string{"/", "/", "/dashboard", "/design", "/design/mcmc"},
		CurrentRoute:  "/design/mcmc",
	}
	got := graph.GenerateMermaid(catalog.Workflows(), overlay)

	assert.Contains(t, got, "classDef current")
	assert.Equal(t, 1, strings.Count(got, "class home visited;"), "visited routes are deduplicated")
	assert.Contains(t, got, "class dashboard visited;")
	assert.Contains(t, got, "class design__mcmc current;")
}
