package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// CloudWatchAPI is the slice of the CloudWatch API the provider needs.
type CloudWatchAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// cwMapping translates a canonical metric name to a CloudWatch query.
type cwMapping struct {
	namespace string
	metric    string
	dimension string
	statistic cwtypes.Statistic
}

var cloudwatchMappings = map[string]cwMapping{
	models.MetricComputeCPU:       {"AWS/EC2", "CPUUtilization", "InstanceId", cwtypes.StatisticAverage},
	models.MetricComputeMemory:    {"CWAgent", "mem_used_percent", "InstanceId", cwtypes.StatisticAverage},
	models.MetricDatabaseCPU:      {"AWS/RDS", "CPUUtilization", "DBInstanceIdentifier", cwtypes.StatisticAverage},
	models.MetricDatabaseConns:    {"AWS/RDS", "DatabaseConnections", "DBInstanceIdentifier", cwtypes.StatisticAverage},
	models.MetricCacheCPU:         {"AWS/ElastiCache", "CPUUtilization", "CacheClusterId", cwtypes.StatisticAverage},
	models.MetricCacheConns:       {"AWS/ElastiCache", "CurrConnections", "CacheClusterId", cwtypes.StatisticAverage},
	models.MetricLBRequests:       {"AWS/ApplicationELB", "RequestCount", "LoadBalancer", cwtypes.StatisticSum},
	models.MetricLBProcessedBytes: {"AWS/ApplicationELB", "ProcessedBytes", "LoadBalancer", cwtypes.StatisticSum},
	models.MetricNATConns:         {"AWS/NATGateway", "ActiveConnectionCount", "NatGatewayId", cwtypes.StatisticAverage},
	models.MetricNATBytesOut:      {"AWS/NATGateway", "BytesOutToDestination", "NatGatewayId", cwtypes.StatisticSum},
}

// CloudWatchProvider fetches series from CloudWatch. The end of the query
// window is fixed at construction so a whole run sees one consistent "now".
type CloudWatchProvider struct {
	client CloudWatchAPI
	now    time.Time
	log    *zap.Logger
}

// NewCloudWatchProvider builds a CloudWatch-backed provider.
func NewCloudWatchProvider(client CloudWatchAPI, now time.Time, log *zap.Logger) *CloudWatchProvider {
	return &CloudWatchProvider{client: client, now: now, log: log}
}

func (p *CloudWatchProvider) Name() string { return "cloudwatch" }

func (p *CloudWatchProvider) GetSeries(ctx context.Context, resourceID, metricName string, window, period time.Duration) (models.MetricSeries, error) {
	mapping, ok := cloudwatchMappings[metricName]
	if !ok {
		return models.MetricSeries{}, fmt.Errorf("no CloudWatch mapping for metric %q", metricName)
	}

	out, err := p.client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(mapping.namespace),
		MetricName: aws.String(mapping.metric),
		Dimensions: []cwtypes.Dimension{{
			Name:  aws.String(mapping.dimension),
			Value: aws.String(resourceID),
		}},
		StartTime:  aws.Time(p.now.Add(-window)),
		EndTime:    aws.Time(p.now),
		Period:     aws.Int32(int32(period.Seconds())),
		Statistics: []cwtypes.Statistic{mapping.statistic},
	})
	if err != nil {
		return models.MetricSeries{}, fmt.Errorf("cloudwatch query for %s/%s failed: %w", resourceID, metricName, err)
	}

	samples := make([]models.Sample, 0, len(out.Datapoints))
	for _, dp := range out.Datapoints {
		value := dp.Average
		if mapping.statistic == cwtypes.StatisticSum {
			value = dp.Sum
		}
		if dp.Timestamp == nil || value == nil {
			continue
		}
		samples = append(samples, models.Sample{Timestamp: *dp.Timestamp, Value: *value})
	}
	// CloudWatch returns datapoints unordered.
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	p.log.Debug("cloudwatch series fetched",
		zap.String("resource", resourceID),
		zap.String("metric", metricName),
		zap.Int("samples", len(samples)))

	return models.MetricSeries{
		ResourceID:    resourceID,
		MetricName:    metricName,
		PeriodSeconds: int(period.Seconds()),
		Samples:       samples,
	}, nil
}
