package domain

import "strings"

// Kind identifies which page variant a State represents.
type Kind string

const (
	KindInitialization Kind = "InitializationState" // Startup checks (backend probe)
	KindHome           Kind = "HomeState"           // Splash page
	KindDashboard      Kind = "DashboardState"      // Hub branching to every workflow
	KindDesign         Kind = "DesignState"
	KindAnalysis       Kind = "AnalysisState"
	KindModeling       Kind = "ModelingState"
	KindOptimization   Kind = "OptimizationState"
)

// Kinds lists every page variant in navigation order.
func Kinds() []Kind {
	return []Kind{
		KindInitialization,
		KindHome,
		KindDashboard,
		KindDesign,
		KindAnalysis,
		KindModeling,
		KindOptimization,
	}
}

// WorkflowKinds lists the hub states reachable only through the Dashboard.
func WorkflowKinds() []Kind {
	return []Kind{KindDesign, KindAnalysis, KindModeling, KindOptimization}
}

// Name strips the "State" suffix and lower-cases the identifier ("DesignState" -> "design").
func (k Kind) Name() string {
	return strings.ToLower(strings.TrimSuffix(string(k), "State"))
}

// Valid reports whether k is one of the seven page variants.
func (k Kind) Valid() bool {
	switch k {
	case KindInitialization, KindHome, KindDashboard,
		KindDesign, KindAnalysis, KindModeling, KindOptimization:
		return true
	}
	return false
}

// IsWorkflow reports whether k is a workflow hub entered through the Dashboard.
func (k Kind) IsWorkflow() bool {
	switch k {
	case KindDesign, KindAnalysis, KindModeling, KindOptimization:
		return true
	}
	return false
}

// BaseRoute returns the route of a State of this kind with no substate.
func (k Kind) BaseRoute() string {
	switch k {
	case KindInitialization, KindHome:
		return "/"
	default:
		return "/" + k.Name()
	}
}

// KindByName resolves a display name ("design") back to its Kind.
func KindByName(name string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Name() == name {
			return k, true
		}
	}
	return "", false
}
