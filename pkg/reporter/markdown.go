package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// writeMarkdown renders the report as a markdown document suitable for
// pasting into a ticket or wiki page.
func writeMarkdown(report *Report, w io.Writer) error {
	result := report.Result

	fmt.Fprintf(w, "# Cloud Waste Report\n\n")
	if report.Scope != "" {
		fmt.Fprintf(w, "**Scope:** %s\n\n", report.Scope)
	}
	fmt.Fprintf(w, "**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(w, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(w, "| Resources analyzed | %d |\n", result.ResourcesAnalyzed)
	fmt.Fprintf(w, "| Recommendations | %d |\n", result.RecommendationCount())
	fmt.Fprintf(w, "| Monthly savings | $%.2f |\n", result.TotalMonthlySavings)
	fmt.Fprintf(w, "| Annual savings | $%.2f |\n\n", result.TotalAnnualSavings)

	if len(report.KindStats) > 0 {
		fmt.Fprintf(w, "## Savings by Resource Kind\n\n")
		fmt.Fprintf(w, "| Kind | Recommendations | Monthly Savings |\n|---|---|---|\n")
		for _, kb := range report.KindStats {
			fmt.Fprintf(w, "| %s | %d | $%.2f |\n", kb.Kind, kb.Recommendations, kb.MonthlySavings)
		}
		fmt.Fprintln(w)
	}

	for _, kind := range models.AllKinds {
		recs := result.RecommendationsByKind[kind]
		if len(recs) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s\n\n", kindHeading(kind))
		fmt.Fprintf(w, "| Resource | Action | Change | Confidence | Monthly Savings | Reasoning |\n")
		fmt.Fprintf(w, "|---|---|---|---|---|---|\n")
		for _, rec := range recs {
			change := "-"
			if rec.ProposedShape != "" {
				change = fmt.Sprintf("%s → %s", rec.CurrentShape, rec.ProposedShape)
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s | $%.2f | %s |\n",
				rec.ResourceID, rec.Action, change, rec.Confidence,
				rec.MonthlySavings, escapePipes(rec.Reasoning))
		}
		fmt.Fprintln(w)
	}

	if len(result.ResourceErrors) > 0 {
		fmt.Fprintf(w, "## Analysis Errors\n\n")
		for _, re := range result.ResourceErrors {
			fmt.Fprintf(w, "- `%s`: %s\n", re.ResourceID, re.Message)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
