package models

import "time"

// ResourceError records why one resource could not be analyzed. The run
// never silently drops a resource.
type ResourceError struct {
	ResourceID string `json:"resourceId"`
	Message    string `json:"message"`
}

// KindStats aggregates recommendations for one resource kind.
type KindStats struct {
	Recommendations int     `json:"recommendations"`
	MonthlySavings  float64 `json:"monthlySavings"`
}

// AnalysisResult is the output of one engine run. Everything here is
// JSON-serializable; the result crosses into a storage/report layer.
type AnalysisResult struct {
	GeneratedAt           time.Time                         `json:"generatedAt"`
	ResourcesAnalyzed     int                               `json:"resourcesAnalyzed"`
	RecommendationsByKind map[ResourceKind][]Recommendation `json:"recommendationsByKind"`
	TotalMonthlySavings   float64                           `json:"totalMonthlySavings"`
	TotalAnnualSavings    float64                           `json:"totalAnnualSavings"`
	StatsByKind           map[ResourceKind]KindStats        `json:"statsByKind"`
	ResourceErrors        []ResourceError                   `json:"resourceErrors"`
}

// AllRecommendations flattens the by-kind map in deterministic kind order.
func (r *AnalysisResult) AllRecommendations() []Recommendation {
	var all []Recommendation
	for _, kind := range AllKinds {
		all = append(all, r.RecommendationsByKind[kind]...)
	}
	return all
}

// RecommendationCount is the total number of recommendations in the run.
func (r *AnalysisResult) RecommendationCount() int {
	n := 0
	for _, recs := range r.RecommendationsByKind {
		n += len(recs)
	}
	return n
}

// AllKinds lists every resource kind in the engine's canonical order.
var AllKinds = []ResourceKind{
	KindCompute,
	KindVolume,
	KindBucket,
	KindLoadBalancer,
	KindElasticIP,
	KindDatabase,
	KindCacheNode,
	KindNATGateway,
}
