package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticache"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// CacheCollector discovers cache clusters.
type CacheCollector struct {
	client *elasticache.Client
}

// NewCacheCollector builds a collector over an ElastiCache client.
func NewCacheCollector(client *elasticache.Client) *CacheCollector {
	return &CacheCollector{client: client}
}

func (c *CacheCollector) Name() string { return "elasticache" }

func (c *CacheCollector) Collect(ctx context.Context) ([]models.ResourceDescriptor, error) {
	var descriptors []models.ResourceDescriptor

	p := elasticache.NewDescribeCacheClustersPaginator(c.client, &elasticache.DescribeCacheClustersInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe cache clusters failed: %w", err)
		}
		for _, cluster := range page.CacheClusters {
			if aws.ToString(cluster.CacheClusterStatus) != "available" {
				continue
			}
			desc := models.ResourceDescriptor{
				ID:    aws.ToString(cluster.CacheClusterId),
				Kind:  models.KindCacheNode,
				Shape: aws.ToString(cluster.CacheNodeType),
				Attributes: models.Attributes{
					Name:   aws.ToString(cluster.CacheClusterId),
					Engine: aws.ToString(cluster.Engine),
				},
			}
			if cluster.CacheClusterCreateTime != nil {
				desc.CreatedAt = *cluster.CacheClusterCreateTime
			}
			descriptors = append(descriptors, desc)
		}
	}
	return descriptors, nil
}
