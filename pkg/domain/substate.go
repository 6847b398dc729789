package domain

import (
	"fmt"
	"slices"
)

// Substate is a value drawn from the closed set that belongs to one Kind.
// The set is sealed: only the types declared in this package implement it.
type Substate interface {
	fmt.Stringer
	// Kind returns the page variant this value belongs to.
	Kind() Kind
	// Valid reports whether the value is a member of its closed set.
	Valid() bool
}

// DesignType selects a library design method.
type DesignType string

const (
	DesignCombinatoric DesignType = "combinatoric"
	DesignGenerative   DesignType = "generative"
	DesignGenetic      DesignType = "genetic"
	DesignMCMC         DesignType = "mcmc"
	DesignFractal      DesignType = "fractal"
	DesignRandom       DesignType = "random"
)

// AllDesignTypes returns every design method in declaration order.
func AllDesignTypes() []DesignType {
	return []DesignType{DesignCombinatoric, DesignGenerative, DesignGenetic, DesignMCMC, DesignFractal, DesignRandom}
}

func (d DesignType) String() string { return string(d) }
func (d DesignType) Kind() Kind     { return KindDesign }
func (d DesignType) Valid() bool    { return slices.Contains(AllDesignTypes(), d) }

// AnalysisType selects a library analysis method.
type AnalysisType string

const (
	AnalysisCheminformatic  AnalysisType = "cheminformatic"
	AnalysisDataAnalysis    AnalysisType = "data_analysis"
	AnalysisMachineLearning AnalysisType = "machine_learning"
	AnalysisSimulation      AnalysisType = "simulation"
)

// AllAnalysisTypes returns every analysis method in declaration order.
func AllAnalysisTypes() []AnalysisType {
	return []AnalysisType{AnalysisCheminformatic, AnalysisDataAnalysis, AnalysisMachineLearning, AnalysisSimulation}
}

func (a AnalysisType) String() string { return string(a) }
func (a AnalysisType) Kind() Kind     { return KindAnalysis }
func (a AnalysisType) Valid() bool    { return slices.Contains(AllAnalysisTypes(), a) }

// ModelingType selects a structure modeling method.
type ModelingType string

const (
	ModelingDocking           ModelingType = "docking"
	ModelingForceField        ModelingType = "force_field"
	ModelingMachineLearning   ModelingType = "machine_learning"
	ModelingMolecularDynamics ModelingType = "molecular_dynamics"
)

// AllModelingTypes returns every modeling method in declaration order.
func AllModelingTypes() []ModelingType {
	return []ModelingType{ModelingDocking, ModelingForceField, ModelingMachineLearning, ModelingMolecularDynamics}
}

func (m ModelingType) String() string { return string(m) }
func (m ModelingType) Kind() Kind     { return KindModeling }
func (m ModelingType) Valid() bool    { return slices.Contains(AllModelingTypes(), m) }

// OptimizationType selects a sequence optimization method.
type OptimizationType string

const (
	OptimizationGenetic         OptimizationType = "genetic"
	OptimizationMCMC            OptimizationType = "mcmc"
	OptimizationMachineLearning OptimizationType = "machine_learning"
)

// AllOptimizationTypes returns every optimization method in declaration order.
func AllOptimizationTypes() []OptimizationType {
	return []OptimizationType{OptimizationGenetic, OptimizationMCMC, OptimizationMachineLearning}
}

func (o OptimizationType) String() string { return string(o) }
func (o OptimizationType) Kind() Kind     { return KindOptimization }
func (o OptimizationType) Valid() bool    { return slices.Contains(AllOptimizationTypes(), o) }

// InitializationPhase tracks the startup checks.
type InitializationPhase string

const (
	PhaseStart    InitializationPhase = "start"
	PhaseChecking InitializationPhase = "checking"
	PhaseComplete InitializationPhase = "complete"
	PhaseFailed   InitializationPhase = "failed"
)

// AllPhases returns every initialization phase in declaration order.
func AllPhases() []InitializationPhase {
	return []InitializationPhase{PhaseStart, PhaseChecking, PhaseComplete, PhaseFailed}
}

func (p InitializationPhase) String() string { return string(p) }
func (p InitializationPhase) Kind() Kind     { return KindInitialization }
func (p InitializationPhase) Valid() bool    { return slices.Contains(AllPhases(), p) }

// HomePage selects a section of the splash page. HomeMain is the default.
type HomePage string

const (
	HomeMain    HomePage = "main"
	HomeAbout   HomePage = "about"
	HomeContact HomePage = "contact"
)

// AllHomePages returns every home section in declaration order.
func AllHomePages() []HomePage {
	return []HomePage{HomeMain, HomeAbout, HomeContact}
}

func (h HomePage) String() string { return string(h) }
func (h HomePage) Kind() Kind     { return KindHome }
func (h HomePage) Valid() bool    { return slices.Contains(AllHomePages(), h) }

// DashboardView selects a panel of the dashboard. DashboardOverview is the default.
type DashboardView string

const (
	DashboardOverview DashboardView = "overview"
	DashboardSettings DashboardView = "settings"
	DashboardHistory  DashboardView = "history"
)

// AllDashboardViews returns every dashboard panel in declaration order.
func AllDashboardViews() []DashboardView {
	return []DashboardView{DashboardOverview, DashboardSettings, DashboardHistory}
}

func (d DashboardView) String() string { return string(d) }
func (d DashboardView) Kind() Kind     { return KindDashboard }
func (d DashboardView) Valid() bool    { return slices.Contains(AllDashboardViews(), d) }

// WorkflowType names the top-level workflows offered by the dashboard.
// It is catalog data, not a State substate.
type WorkflowType string

const (
	WorkflowDesign       WorkflowType = "design"
	WorkflowAnalysis     WorkflowType = "analysis"
	WorkflowModeling     WorkflowType = "modeling"
	WorkflowOptimization WorkflowType = "optimization"
	WorkflowSettings     WorkflowType = "settings"
)

// AllWorkflowTypes returns every workflow in declaration order.
func AllWorkflowTypes() []WorkflowType {
	return []WorkflowType{WorkflowDesign, WorkflowAnalysis, WorkflowModeling, WorkflowOptimization, WorkflowSettings}
}

// Substates returns the closed set accepted by a State of kind k.
func Substates(k Kind) []Substate {
	switch k {
	case KindInitialization:
		return toSubstates(AllPhases())
	case KindHome:
		return toSubstates(AllHomePages())
	case KindDashboard:
		return toSubstates(AllDashboardViews())
	case KindDesign:
		return toSubstates(AllDesignTypes())
	case KindAnalysis:
		return toSubstates(AllAnalysisTypes())
	case KindModeling:
		return toSubstates(AllModelingTypes())
	case KindOptimization:
		return toSubstates(AllOptimizationTypes())
	}
	return nil
}

// ParseSubstate resolves a canonical string value within the closed set of kind k.
func ParseSubstate(k Kind, value string) (Substate, error) {
	for _, s := range Substates(k) {
		if s.String() == value {
			return s, nil
		}
	}
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return nil, fmt.Errorf("%w: %q for %s", ErrInvalidSubstate, value, k)
}

func toSubstates[T Substate](values []T) []Substate {
	out := make([]Substate, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
