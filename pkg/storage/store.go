package storage

import (
	"context"
	"time"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// RunSummary is one persisted analysis run as listed by history queries.
type RunSummary struct {
	ID                  string
	Scope               string
	GeneratedAt         time.Time
	ResourcesAnalyzed   int
	Recommendations     int
	Errors              int
	TotalMonthlySavings float64
	TotalAnnualSavings  float64
	CreatedAt           time.Time
}

// Store persists completed analysis results. The engine never touches it;
// results cross into the store after a run finishes.
type Store interface {
	SaveResult(ctx context.Context, scope string, result *models.AnalysisResult) (runID string, err error)
	GetResult(ctx context.Context, runID string) (*models.AnalysisResult, error)
	ListRuns(ctx context.Context, scope string, limit int) ([]RunSummary, error)

	Ping(ctx context.Context) error
	Close() error
}
