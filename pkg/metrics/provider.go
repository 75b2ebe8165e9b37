package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// Provider fetches one utilization series per resource and signal. It is
// called concurrently by the orchestrator and must be safe for that.
type Provider interface {
	GetSeries(ctx context.Context, resourceID, metricName string, window, period time.Duration) (models.MetricSeries, error)
	Name() string
}

// StaticProvider serves series from memory. It backs offline runs fed from
// a metrics file and the test suites.
type StaticProvider struct {
	series map[string]map[string]models.MetricSeries
}

// NewStaticProvider builds an empty in-memory provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{series: make(map[string]map[string]models.MetricSeries)}
}

// Add registers a series for a resource/metric pair.
func (p *StaticProvider) Add(s models.MetricSeries) {
	if p.series[s.ResourceID] == nil {
		p.series[s.ResourceID] = make(map[string]models.MetricSeries)
	}
	p.series[s.ResourceID][s.MetricName] = s
}

func (p *StaticProvider) Name() string { return "static" }

// GetSeries returns the registered series, or an empty one when nothing
// was registered; absent data is not an error.
func (p *StaticProvider) GetSeries(_ context.Context, resourceID, metricName string, _, period time.Duration) (models.MetricSeries, error) {
	if byMetric, ok := p.series[resourceID]; ok {
		if s, ok := byMetric[metricName]; ok {
			return s, nil
		}
	}
	return models.MetricSeries{
		ResourceID:    resourceID,
		MetricName:    metricName,
		PeriodSeconds: int(period.Seconds()),
	}, nil
}

type metricsFile struct {
	Series []models.MetricSeries `json:"series"`
}

// LoadStaticFile reads a JSON metrics file for offline analysis runs.
func LoadStaticFile(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics file: %w", err)
	}
	var f metricsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse metrics file: %w", err)
	}
	p := NewStaticProvider()
	for _, s := range f.Series {
		p.Add(s)
	}
	return p, nil
}
