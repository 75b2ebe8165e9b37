package models

// ConfidenceLevel indicates how much a recommendation should be trusted.
// Derived from sample volume and signal completeness; risk factors only
// ever downgrade it.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

var confidenceRank = map[ConfidenceLevel]int{
	ConfidenceHigh:   3,
	ConfidenceMedium: 2,
	ConfidenceLow:    1,
}

// Downgrade returns the next level down. Low stays low.
func (c ConfidenceLevel) Downgrade() ConfidenceLevel {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	case ConfidenceMedium:
		return ConfidenceLow
	default:
		return ConfidenceLow
	}
}

// AtLeast reports whether c is no weaker than other.
func (c ConfidenceLevel) AtLeast(other ConfidenceLevel) bool {
	return confidenceRank[c] >= confidenceRank[other]
}

// WorkloadPattern is a coarse label for utilization shape over time.
type WorkloadPattern string

const (
	PatternSteady  WorkloadPattern = "steady"
	PatternPeaky   WorkloadPattern = "peaky"
	PatternDevTest WorkloadPattern = "devTest"
	PatternUnknown WorkloadPattern = "unknown"
)

// PerformanceImpact estimates how a change could affect the workload.
type PerformanceImpact string

const (
	ImpactNone        PerformanceImpact = "none"
	ImpactMinimal     PerformanceImpact = "minimal"
	ImpactModerate    PerformanceImpact = "moderate"
	ImpactSignificant PerformanceImpact = "significant"
)

// Action names what the recommendation proposes.
type Action string

const (
	ActionRightsize       Action = "rightsize"
	ActionRelease         Action = "release"
	ActionRemove          Action = "remove"
	ActionReview          Action = "review"
	ActionConsiderRemoval Action = "consider-removal"
	ActionDownsize        Action = "downsize"
	ActionDisableMultiAZ  Action = "disable-multi-az"
	ActionScheduleStop    Action = "schedule-auto-stop"
	ActionAddVPCEndpoints Action = "add-vpc-endpoints"
	ActionRemoveDuplicate Action = "remove-duplicate"
	ActionLifecyclePolicy Action = "add-lifecycle-policy"
	ActionClassTransition Action = "transition-storage-class"
	ActionMigrateGP3      Action = "migrate-gp3"
	ActionDeleteVolume    Action = "delete-volume"
)

// Recommendation is one ranked, explainable cost-saving proposal for one
// resource. Immutable once produced.
type Recommendation struct {
	ResourceID        string            `json:"resourceId"`
	Kind              ResourceKind      `json:"kind"`
	Action            Action            `json:"action"`
	CurrentShape      string            `json:"currentShape,omitempty"`
	ProposedShape     string            `json:"proposedShape,omitempty"`
	Confidence        ConfidenceLevel   `json:"confidence"`
	WorkloadPattern   WorkloadPattern   `json:"workloadPattern,omitempty"`
	MonthlySavings    float64           `json:"monthlySavings"`
	AnnualSavings     float64           `json:"annualSavings"`
	SavingsPercent    float64           `json:"savingsPercentage,omitempty"`
	PerformanceImpact PerformanceImpact `json:"performanceImpact"`
	Reasoning         string            `json:"reasoning"`
	Warnings          []string          `json:"warnings,omitempty"`
}
