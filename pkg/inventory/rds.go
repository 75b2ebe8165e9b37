package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// RDSCollector discovers database instances.
type RDSCollector struct {
	client *rds.Client
}

// NewRDSCollector builds a collector over an RDS client.
func NewRDSCollector(client *rds.Client) *RDSCollector {
	return &RDSCollector{client: client}
}

func (c *RDSCollector) Name() string { return "rds" }

func (c *RDSCollector) Collect(ctx context.Context) ([]models.ResourceDescriptor, error) {
	var descriptors []models.ResourceDescriptor

	p := rds.NewDescribeDBInstancesPaginator(c.client, &rds.DescribeDBInstancesInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe DB instances failed: %w", err)
		}
		for _, db := range page.DBInstances {
			if aws.ToString(db.DBInstanceStatus) != "available" {
				continue
			}
			desc := models.ResourceDescriptor{
				ID:    aws.ToString(db.DBInstanceIdentifier),
				Kind:  models.KindDatabase,
				Shape: aws.ToString(db.DBInstanceClass),
				Attributes: models.Attributes{
					Name:    aws.ToString(db.DBInstanceIdentifier),
					Engine:  aws.ToString(db.Engine),
					MultiAZ: aws.ToBool(db.MultiAZ),
				},
			}
			if db.InstanceCreateTime != nil {
				desc.CreatedAt = *db.InstanceCreateTime
			}
			descriptors = append(descriptors, desc)
		}
	}
	return descriptors, nil
}
