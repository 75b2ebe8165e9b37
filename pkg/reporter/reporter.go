package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// ReportFormat represents the output format
type ReportFormat string

const (
	FormatText     ReportFormat = "text"
	FormatMarkdown ReportFormat = "markdown"
	FormatCSV      ReportFormat = "csv"
	FormatJSON     ReportFormat = "json"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (ReportFormat, error) {
	switch ReportFormat(s) {
	case FormatText, FormatMarkdown, FormatCSV, FormatJSON:
		return ReportFormat(s), nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, markdown, csv or json)", s)
	}
}

// Report contains all data for generating reports
type Report struct {
	Scope           string
	GeneratedAt     time.Time
	Result          *models.AnalysisResult
	KindStats       []KindBreakdown
	ConfidenceStats []ConfidenceBreakdown
}

// KindBreakdown holds statistics per resource kind
type KindBreakdown struct {
	Kind            models.ResourceKind
	Recommendations int
	MonthlySavings  float64
}

// ConfidenceBreakdown holds statistics per confidence level
type ConfidenceBreakdown struct {
	Confidence      models.ConfidenceLevel
	Recommendations int
	MonthlySavings  float64
}

// Reporter generates waste analysis reports
type Reporter struct {
	format ReportFormat
}

// New creates a new reporter
func New(format ReportFormat) *Reporter {
	return &Reporter{format: format}
}

// Generate builds a report from an analysis result.
func (r *Reporter) Generate(result *models.AnalysisResult, scope string) *Report {
	report := &Report{
		Scope:       scope,
		GeneratedAt: result.GeneratedAt,
		Result:      result,
	}

	for _, kind := range models.AllKinds {
		recs := result.RecommendationsByKind[kind]
		if len(recs) == 0 {
			continue
		}
		kb := KindBreakdown{Kind: kind}
		for _, rec := range recs {
			kb.Recommendations++
			kb.MonthlySavings += rec.MonthlySavings
		}
		report.KindStats = append(report.KindStats, kb)
	}

	byConfidence := map[models.ConfidenceLevel]*ConfidenceBreakdown{}
	for _, rec := range result.AllRecommendations() {
		cb, ok := byConfidence[rec.Confidence]
		if !ok {
			cb = &ConfidenceBreakdown{Confidence: rec.Confidence}
			byConfidence[rec.Confidence] = cb
		}
		cb.Recommendations++
		cb.MonthlySavings += rec.MonthlySavings
	}
	for _, level := range []models.ConfidenceLevel{models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow} {
		if cb, ok := byConfidence[level]; ok {
			report.ConfidenceStats = append(report.ConfidenceStats, *cb)
		}
	}

	// Biggest savings first within the kind breakdown.
	sort.SliceStable(report.KindStats, func(i, j int) bool {
		return report.KindStats[i].MonthlySavings > report.KindStats[j].MonthlySavings
	})

	return report
}

// Write renders the report in the reporter's format.
func (r *Reporter) Write(report *Report, w io.Writer) error {
	switch r.format {
	case FormatText:
		return writeText(report, w)
	case FormatMarkdown:
		return writeMarkdown(report, w)
	case FormatCSV:
		return writeCSV(report, w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Result)
	default:
		return fmt.Errorf("unknown report format %q", r.format)
	}
}
