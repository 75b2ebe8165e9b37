package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// writeCSV creates a CSV report
func writeCSV(report *Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"Resource ID",
		"Kind",
		"Action",
		"Current Shape",
		"Proposed Shape",
		"Confidence",
		"Pattern",
		"Monthly Savings ($)",
		"Annual Savings ($)",
		"Impact",
		"Reasoning",
		"Warnings",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range report.Result.AllRecommendations() {
		row := []string{
			rec.ResourceID,
			string(rec.Kind),
			string(rec.Action),
			rec.CurrentShape,
			rec.ProposedShape,
			string(rec.Confidence),
			string(rec.WorkloadPattern),
			fmt.Sprintf("%.2f", rec.MonthlySavings),
			fmt.Sprintf("%.2f", rec.AnnualSavings),
			string(rec.PerformanceImpact),
			rec.Reasoning,
			strings.Join(rec.Warnings, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// Summary rows
	cw.Write([]string{})
	cw.Write([]string{"SUMMARY"})
	cw.Write([]string{"Resources Analyzed", fmt.Sprintf("%d", report.Result.ResourcesAnalyzed)})
	cw.Write([]string{"Recommendations", fmt.Sprintf("%d", report.Result.RecommendationCount())})
	cw.Write([]string{"Total Monthly Savings", fmt.Sprintf("$%.2f", report.Result.TotalMonthlySavings)})
	cw.Write([]string{"Total Annual Savings", fmt.Sprintf("$%.2f", report.Result.TotalAnnualSavings)})

	// Kind breakdown
	cw.Write([]string{})
	cw.Write([]string{"KIND BREAKDOWN"})
	cw.Write([]string{"Kind", "Recommendations", "Monthly Savings"})
	for _, kb := range report.KindStats {
		cw.Write([]string{
			string(kb.Kind),
			fmt.Sprintf("%d", kb.Recommendations),
			fmt.Sprintf("$%.2f", kb.MonthlySavings),
		})
	}

	return nil
}
