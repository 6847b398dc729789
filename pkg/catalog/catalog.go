// Package catalog describes the workflows and methods offered by the front end:
// their display names, descriptions, routes and back links.
package catalog

import (
	"strings"

	"github.com/aretw0/peplab/pkg/domain"
)

// Method is one selectable method of a workflow hub.
type Method struct {
	Value       string `json:"value" yaml:"value"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Route       string `json:"route" yaml:"route"`
}

// Workflow is one hub reachable from the dashboard.
type Workflow struct {
	Type    domain.WorkflowType `json:"type" yaml:"type"`
	Title   string              `json:"title" yaml:"title"`
	Route   string              `json:"route" yaml:"route"`
	Methods []Method            `json:"methods,omitempty" yaml:"methods,omitempty"`
}

type entry struct {
	name        string
	description string
}

var titles = map[domain.WorkflowType]string{
	domain.WorkflowDesign:       "Library Design",
	domain.WorkflowAnalysis:     "Library Analysis",
	domain.WorkflowModeling:     "Structure Modeling",
	domain.WorkflowOptimization: "Sequence Optimization",
	domain.WorkflowSettings:     "Settings",
}

var methods = map[domain.Kind]map[string]entry{
	domain.KindDesign: {
		"combinatoric": {"Combinatorial", "Generate a peptide library using combinatorial methods"},
		"generative":   {"Generative AI", "Generate a peptide library using generative AI models"},
		"genetic":      {"Genetic Algorithm", "Generate a peptide library through simulated evolution using genetic algorithms"},
		"mcmc":         {"Markov Chain Monte Carlo", "Generate a peptide library using Markov Chain Monte Carlo sampling"},
		"fractal":      {"Fractal-Based", "Generate a peptide library using fractal-based patterns"},
		"random":       {"Random Sampling", "Generate a peptide library using random sampling"},
	},
	domain.KindAnalysis: {
		"cheminformatic":   {"Cheminformatics", "Analyze chemical properties of peptides"},
		"data_analysis":    {"Data Analysis", "Analyze experimental results from assays, DEL sequencing, etc."},
		"machine_learning": {"Machine Learning", "Analyze peptides using machine learning models"},
		"simulation":       {"Simulation Analysis", "Analyze simulation results"},
	},
	domain.KindModeling: {
		"docking":            {"Molecular Docking", "Simulate peptide-protein docking interactions"},
		"force_field":        {"Force Field", "Calculate molecular mechanics using force fields"},
		"machine_learning":   {"Machine Learning", "Apply ML models for structure prediction"},
		"molecular_dynamics": {"Molecular Dynamics", "Simulate peptide dynamics and conformations"},
	},
	domain.KindOptimization: {
		"genetic":          {"Genetic Algorithm", "Evolve peptide sequences using genetic algorithms"},
		"mcmc":             {"Markov Chain Monte Carlo", "Sample peptide space using Markov Chain Monte Carlo methods"},
		"machine_learning": {"Machine Learning", "Optimize sequences using ML models"},
	},
}

// Methods lists the methods of a workflow hub in declaration order.
// Kinds other than the four workflow hubs have none.
func Methods(k domain.Kind) []Method {
	if !k.IsWorkflow() {
		return nil
	}
	table := methods[k]
	var out []Method
	for _, s := range domain.Substates(k) {
		e := table[s.String()]
		st := domain.NewState(k)
		_ = st.SetSubstate(s)
		out = append(out, Method{
			Value:       s.String(),
			Name:        e.name,
			Description: e.description,
			Route:       st.Route(),
		})
	}
	return out
}

// Lookup returns the method of hub k named value.
func Lookup(k domain.Kind, value string) (Method, bool) {
	for _, m := range Methods(k) {
		if m.Value == value {
			return m, true
		}
	}
	return Method{}, false
}

// Workflows lists every dashboard workflow with its methods.
func Workflows() []Workflow {
	var out []Workflow
	for _, w := range domain.AllWorkflowTypes() {
		wf := Workflow{Type: w, Title: titles[w]}
		if k, ok := domain.KindByName(string(w)); ok && k.IsWorkflow() {
			wf.Route = k.BaseRoute()
			wf.Methods = Methods(k)
		} else {
			// Settings is a dashboard panel, not a hub.
			wf.Route = "/dashboard/settings"
		}
		out = append(out, wf)
	}
	return out
}

// Title returns the page title for a state kind.
func Title(k domain.Kind) string {
	switch k {
	case domain.KindInitialization:
		return "Starting"
	case domain.KindHome:
		return "Peptide Design"
	case domain.KindDashboard:
		return "Dashboard"
	}
	return titles[domain.WorkflowType(k.Name())]
}

// ParentRoute returns the back link for route: method pages go back to their
// hub, hubs and dashboard panels to the dashboard, and the dashboard to home.
// Unknown routes fall back to the dashboard.
func ParentRoute(route string) string {
	trimmed := strings.Trim(route, "/")
	if trimmed == "" {
		return ""
	}
	hub, method, nested := strings.Cut(trimmed, "/")

	if hub == domain.KindDashboard.Name() {
		if nested {
			return domain.KindDashboard.BaseRoute()
		}
		return "/"
	}

	if k, ok := domain.KindByName(hub); ok && k.IsWorkflow() {
		if _, known := Lookup(k, method); nested && known {
			return k.BaseRoute()
		}
		return domain.KindDashboard.BaseRoute()
	}

	// Home sections (/about, /contact) go back to the splash page.
	if !nested {
		for _, p := range domain.AllHomePages() {
			if p.String() == hub {
				return "/"
			}
		}
	}
	return domain.KindDashboard.BaseRoute()
}
