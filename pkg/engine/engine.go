package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/opscart/cloud-waste-advisor/pkg/analyzer"
	"github.com/opscart/cloud-waste-advisor/pkg/catalog"
	"github.com/opscart/cloud-waste-advisor/pkg/metrics"
	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// ErrCatalogUnavailable means no catalog was supplied. Nothing can be
// analyzed without one, so the run fails before any per-resource work.
var ErrCatalogUnavailable = errors.New("no catalog supplied")

// DefaultConcurrency bounds parallel metric collection to stay under
// upstream API rate limits.
const DefaultConcurrency = 5

// Options tunes one engine run.
type Options struct {
	// Concurrency caps in-flight per-resource work. Zero means
	// DefaultConcurrency.
	Concurrency int
	// Window and Period shape every metric lookup.
	Window time.Duration
	Period time.Duration
	// Now is the injected run timestamp; nothing reads the system clock.
	Now time.Time
	// MinMonthlySavings drops recommendations below the noise floor.
	MinMonthlySavings float64
}

// Engine fans analysis out across a resource inventory and assembles the
// recommendation set.
type Engine struct {
	analyzers map[models.ResourceKind][]analyzer.Analyzer
	provider  metrics.Provider
	catalog   *catalog.Catalog
	log       *zap.Logger
	opts      Options
}

// New builds an engine over an explicit analyzer set.
func New(cat *catalog.Catalog, provider metrics.Provider, log *zap.Logger, opts Options, analyzers ...analyzer.Analyzer) (*Engine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, ErrCatalogUnavailable
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Window <= 0 {
		opts.Window = 60 * 24 * time.Hour
	}
	if opts.Period <= 0 {
		opts.Period = time.Hour
	}

	byKind := make(map[models.ResourceKind][]analyzer.Analyzer)
	for _, a := range analyzers {
		byKind[a.Kind()] = append(byKind[a.Kind()], a)
	}
	return &Engine{
		analyzers: byKind,
		provider:  provider,
		catalog:   cat,
		log:       log,
		opts:      opts,
	}, nil
}

// NewDefault builds an engine with every analyzer registered.
func NewDefault(cat *catalog.Catalog, provider metrics.Provider, log *zap.Logger, opts Options, t analyzer.Thresholds, c analyzer.Costs) (*Engine, error) {
	return New(cat, provider, log, opts,
		analyzer.NewComputeAnalyzer(t),
		analyzer.NewVolumeAnalyzer(t, c),
		analyzer.NewStorageAnalyzer(t, c),
		analyzer.NewLoadBalancerAnalyzer(t, c),
		analyzer.NewElasticIPAnalyzer(c),
		analyzer.NewDatabaseAnalyzer(t, c),
		analyzer.NewCacheAnalyzer(t, c),
		analyzer.NewNATGatewayAnalyzer(t, c),
	)
}

// slot is one resource's outcome. Each goroutine writes only its own slot;
// the merge happens after all tasks finish.
type slot struct {
	recs []models.Recommendation
	err  *models.ResourceError
}

// Run analyzes the whole inventory with bounded concurrency. Cancellation
// stops new work from being issued; resources that never started are
// recorded in resourceErrors, and whatever completed is returned.
func (e *Engine) Run(ctx context.Context, inventory []models.ResourceDescriptor) (*models.AnalysisResult, error) {
	slots := make([]slot, len(inventory))

	g := new(errgroup.Group)
	g.SetLimit(e.opts.Concurrency)

	for i, desc := range inventory {
		if ctx.Err() != nil {
			for j := i; j < len(inventory); j++ {
				slots[j].err = &models.ResourceError{
					ResourceID: inventory[j].ID,
					Message:    "run canceled before analysis started",
				}
			}
			break
		}
		i, desc := i, desc
		g.Go(func() error {
			slots[i] = e.analyzeResource(ctx, desc)
			return nil
		})
	}
	// Goroutines never return errors; failures live in their slots.
	_ = g.Wait()

	return e.assemble(slots), nil
}

// analyzeResource collects the metric series the resource's analyzers need
// and runs them. Every failure is scoped to this one resource.
func (e *Engine) analyzeResource(ctx context.Context, desc models.ResourceDescriptor) slot {
	if err := ctx.Err(); err != nil {
		return slot{err: &models.ResourceError{ResourceID: desc.ID, Message: "run canceled before analysis started"}}
	}

	analyzers := e.analyzers[desc.Kind]
	if len(analyzers) == 0 {
		e.log.Debug("no analyzer registered for kind",
			zap.String("resource", desc.ID), zap.String("kind", string(desc.Kind)))
		return slot{}
	}

	series, err := e.collectSeries(ctx, desc.ID, analyzers)
	if err != nil {
		e.log.Warn("metric collection failed",
			zap.String("resource", desc.ID), zap.Error(err))
		return slot{err: &models.ResourceError{ResourceID: desc.ID, Message: err.Error()}}
	}

	in := analyzer.Input{
		Descriptor: desc,
		Metrics:    series,
		Catalog:    e.catalog,
		Now:        e.opts.Now,
	}

	var recs []models.Recommendation
	for _, a := range analyzers {
		out, err := a.Analyze(in)
		if err != nil {
			if errors.Is(err, analyzer.ErrUnknownShape) {
				// Not an error: no decision is possible for this shape.
				e.log.Info("shape not in catalog, skipping",
					zap.String("resource", desc.ID), zap.String("shape", desc.Shape))
				continue
			}
			return slot{err: &models.ResourceError{ResourceID: desc.ID, Message: err.Error()}}
		}
		for _, rec := range out {
			if rec.MonthlySavings < e.opts.MinMonthlySavings {
				continue
			}
			recs = append(recs, rec)
		}
	}
	return slot{recs: recs}
}

// collectSeries fetches the union of the analyzers' required metrics.
func (e *Engine) collectSeries(ctx context.Context, resourceID string, analyzers []analyzer.Analyzer) (map[string]models.MetricSeries, error) {
	series := make(map[string]models.MetricSeries)
	for _, a := range analyzers {
		for _, name := range a.RequiredMetrics() {
			if _, done := series[name]; done {
				continue
			}
			s, err := e.provider.GetSeries(ctx, resourceID, name, e.opts.Window, e.opts.Period)
			if err != nil {
				return nil, fmt.Errorf("collecting %s: %w", name, err)
			}
			series[name] = s
		}
	}
	return series, nil
}

// assemble merges the per-resource slots into a deterministic result.
func (e *Engine) assemble(slots []slot) *models.AnalysisResult {
	result := &models.AnalysisResult{
		GeneratedAt:           e.opts.Now,
		RecommendationsByKind: make(map[models.ResourceKind][]models.Recommendation),
		StatsByKind:           make(map[models.ResourceKind]models.KindStats),
		ResourceErrors:        []models.ResourceError{},
	}

	for _, s := range slots {
		if s.err != nil {
			result.ResourceErrors = append(result.ResourceErrors, *s.err)
			continue
		}
		result.ResourcesAnalyzed++
		for _, rec := range s.recs {
			result.RecommendationsByKind[rec.Kind] = append(result.RecommendationsByKind[rec.Kind], rec)
		}
	}

	// Fixed kind order keeps float accumulation identical across runs.
	for _, kind := range models.AllKinds {
		recs, ok := result.RecommendationsByKind[kind]
		if !ok {
			continue
		}
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].ResourceID != recs[j].ResourceID {
				return recs[i].ResourceID < recs[j].ResourceID
			}
			return recs[i].Action < recs[j].Action
		})

		stats := models.KindStats{Recommendations: len(recs)}
		for _, rec := range recs {
			stats.MonthlySavings += rec.MonthlySavings
			result.TotalMonthlySavings += rec.MonthlySavings
			result.TotalAnnualSavings += rec.AnnualSavings
		}
		result.StatsByKind[kind] = stats
	}

	sort.Slice(result.ResourceErrors, func(i, j int) bool {
		return result.ResourceErrors[i].ResourceID < result.ResourceErrors[j].ResourceID
	})

	e.log.Info("analysis run complete",
		zap.Int("resources", len(slots)),
		zap.Int("recommendations", result.RecommendationCount()),
		zap.Int("errors", len(result.ResourceErrors)),
		zap.Float64("monthlySavings", result.TotalMonthlySavings))

	return result
}
