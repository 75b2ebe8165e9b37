package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"go.uber.org/zap"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// prometheusQueries maps canonical metric names to query templates. The
// single %s is the resource ID; exporters such as yace label AWS series
// with the resource identifier.
var prometheusQueries = map[string]string{
	models.MetricComputeCPU:       `aws_ec2_cpuutilization_average{instance_id="%s"}`,
	models.MetricComputeMemory:    `node_memory_used_percent{instance_id="%s"}`,
	models.MetricDatabaseCPU:      `aws_rds_cpuutilization_average{dbinstance_identifier="%s"}`,
	models.MetricDatabaseConns:    `aws_rds_database_connections_average{dbinstance_identifier="%s"}`,
	models.MetricCacheCPU:         `aws_elasticache_cpuutilization_average{cache_cluster_id="%s"}`,
	models.MetricCacheConns:       `aws_elasticache_curr_connections_average{cache_cluster_id="%s"}`,
	models.MetricLBRequests:       `aws_applicationelb_request_count_sum{load_balancer="%s"}`,
	models.MetricLBProcessedBytes: `aws_applicationelb_processed_bytes_sum{load_balancer="%s"}`,
	models.MetricNATConns:         `aws_natgateway_active_connection_count_average{nat_gateway_id="%s"}`,
	models.MetricNATBytesOut:      `aws_natgateway_bytes_out_to_destination_sum{nat_gateway_id="%s"}`,
}

// PrometheusProvider fetches series from a Prometheus server that scrapes
// a cloud metrics exporter.
type PrometheusProvider struct {
	api     v1.API
	queries map[string]string
	now     time.Time
	log     *zap.Logger
}

// NewPrometheusProvider builds a provider against the given server URL.
// The query-window end is fixed at construction.
func NewPrometheusProvider(url string, now time.Time, log *zap.Logger) (*PrometheusProvider, error) {
	client, err := api.NewClient(api.Config{Address: url})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}
	return &PrometheusProvider{
		api:     v1.NewAPI(client),
		queries: prometheusQueries,
		now:     now,
		log:     log,
	}, nil
}

func (p *PrometheusProvider) Name() string { return "prometheus" }

func (p *PrometheusProvider) GetSeries(ctx context.Context, resourceID, metricName string, window, period time.Duration) (models.MetricSeries, error) {
	tmpl, ok := p.queries[metricName]
	if !ok {
		return models.MetricSeries{}, fmt.Errorf("no Prometheus query for metric %q", metricName)
	}
	query := fmt.Sprintf(tmpl, resourceID)

	r := v1.Range{
		Start: p.now.Add(-window),
		End:   p.now,
		Step:  period,
	}
	result, warnings, err := p.api.QueryRange(ctx, query, r)
	if err != nil {
		return models.MetricSeries{}, fmt.Errorf("prometheus query failed: %w", err)
	}
	if len(warnings) > 0 {
		p.log.Debug("prometheus warnings", zap.Strings("warnings", warnings))
	}

	samples, err := parseMatrix(result)
	if err != nil {
		return models.MetricSeries{}, fmt.Errorf("failed to parse %s result: %w", metricName, err)
	}

	return models.MetricSeries{
		ResourceID:    resourceID,
		MetricName:    metricName,
		PeriodSeconds: int(period.Seconds()),
		Samples:       samples,
	}, nil
}

// parseMatrix flattens a range-query result. An empty matrix means no
// data, which is a valid answer, not an error.
func parseMatrix(result model.Value) ([]models.Sample, error) {
	matrix, ok := result.(model.Matrix)
	if !ok {
		return nil, fmt.Errorf("unexpected result type: %T", result)
	}

	var samples []models.Sample
	for _, series := range matrix {
		for _, value := range series.Values {
			samples = append(samples, models.Sample{
				Timestamp: value.Timestamp.Time(),
				Value:     float64(value.Value),
			})
		}
	}
	return samples, nil
}
