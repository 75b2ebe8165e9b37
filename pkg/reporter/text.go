package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// writeText renders the console summary.
func writeText(report *Report, w io.Writer) error {
	result := report.Result

	fmt.Fprintf(w, "Cloud Waste Report")
	if report.Scope != "" {
		fmt.Fprintf(w, " - %s", report.Scope)
	}
	fmt.Fprintf(w, "\nGenerated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 60))

	fmt.Fprintf(w, "Resources analyzed:       %d\n", result.ResourcesAnalyzed)
	fmt.Fprintf(w, "Recommendations:          %d\n", result.RecommendationCount())
	fmt.Fprintf(w, "Estimated monthly saving: $%.2f\n", result.TotalMonthlySavings)
	fmt.Fprintf(w, "Estimated annual saving:  $%.2f\n\n", result.TotalAnnualSavings)

	if len(report.KindStats) > 0 {
		fmt.Fprintf(w, "By resource kind:\n")
		for _, kb := range report.KindStats {
			fmt.Fprintf(w, "  %-14s %3d recommendations  $%9.2f/mo\n",
				kb.Kind, kb.Recommendations, kb.MonthlySavings)
		}
		fmt.Fprintln(w)
	}

	if len(report.ConfidenceStats) > 0 {
		fmt.Fprintf(w, "By confidence:\n")
		for _, cb := range report.ConfidenceStats {
			fmt.Fprintf(w, "  %-14s %3d recommendations  $%9.2f/mo\n",
				cb.Confidence, cb.Recommendations, cb.MonthlySavings)
		}
		fmt.Fprintln(w)
	}

	for _, kind := range models.AllKinds {
		recs := result.RecommendationsByKind[kind]
		if len(recs) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n%s\n", kindHeading(kind), strings.Repeat("-", 60))
		for _, rec := range recs {
			fmt.Fprintf(w, "  %s  [%s, %s confidence]\n", rec.ResourceID, rec.Action, rec.Confidence)
			if rec.ProposedShape != "" {
				fmt.Fprintf(w, "    %s -> %s\n", rec.CurrentShape, rec.ProposedShape)
			}
			fmt.Fprintf(w, "    saves $%.2f/mo - %s\n", rec.MonthlySavings, rec.Reasoning)
			for _, warn := range rec.Warnings {
				fmt.Fprintf(w, "    warning: %s\n", warn)
			}
		}
		fmt.Fprintln(w)
	}

	if len(result.ResourceErrors) > 0 {
		fmt.Fprintf(w, "Resources that could not be analyzed:\n")
		for _, re := range result.ResourceErrors {
			fmt.Fprintf(w, "  %s: %s\n", re.ResourceID, re.Message)
		}
	}

	return nil
}

func kindHeading(kind models.ResourceKind) string {
	switch kind {
	case models.KindCompute:
		return "Compute Instances"
	case models.KindVolume:
		return "Block Volumes"
	case models.KindBucket:
		return "Object Storage"
	case models.KindLoadBalancer:
		return "Load Balancers"
	case models.KindElasticIP:
		return "Elastic IPs"
	case models.KindDatabase:
		return "Databases"
	case models.KindCacheNode:
		return "Cache Nodes"
	case models.KindNATGateway:
		return "NAT Gateways"
	default:
		return string(kind)
	}
}
