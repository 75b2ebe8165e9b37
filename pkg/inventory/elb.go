package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// ELBCollector discovers application and network load balancers with
// their target registration state.
type ELBCollector struct {
	client *elbv2.Client
}

// NewELBCollector builds a collector over an ELBv2 client.
func NewELBCollector(client *elbv2.Client) *ELBCollector {
	return &ELBCollector{client: client}
}

func (c *ELBCollector) Name() string { return "elb" }

func (c *ELBCollector) Collect(ctx context.Context) ([]models.ResourceDescriptor, error) {
	var descriptors []models.ResourceDescriptor

	p := elbv2.NewDescribeLoadBalancersPaginator(c.client, &elbv2.DescribeLoadBalancersInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe load balancers failed: %w", err)
		}
		for _, lb := range page.LoadBalancers {
			registered, healthy, err := c.targetCounts(ctx, aws.ToString(lb.LoadBalancerArn))
			if err != nil {
				return nil, err
			}

			desc := models.ResourceDescriptor{
				// The metric dimension value is the ARN suffix
				// ("app/name/id"), so it doubles as the resource ID.
				ID:    arnSuffix(aws.ToString(lb.LoadBalancerArn)),
				Kind:  models.KindLoadBalancer,
				Shape: string(lb.Type),
				Attributes: models.Attributes{
					Name:              aws.ToString(lb.LoadBalancerName),
					RegisteredTargets: registered,
					HealthyTargets:    healthy,
				},
			}
			if lb.CreatedTime != nil {
				desc.CreatedAt = *lb.CreatedTime
			}
			descriptors = append(descriptors, desc)
		}
	}
	return descriptors, nil
}

func (c *ELBCollector) targetCounts(ctx context.Context, lbARN string) (registered, healthy int, err error) {
	groups, err := c.client.DescribeTargetGroups(ctx, &elbv2.DescribeTargetGroupsInput{
		LoadBalancerArn: aws.String(lbARN),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("describe target groups failed: %w", err)
	}

	for _, group := range groups.TargetGroups {
		health, err := c.client.DescribeTargetHealth(ctx, &elbv2.DescribeTargetHealthInput{
			TargetGroupArn: group.TargetGroupArn,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("describe target health failed: %w", err)
		}
		for _, target := range health.TargetHealthDescriptions {
			registered++
			if target.TargetHealth != nil && target.TargetHealth.State == elbtypes.TargetHealthStateEnumHealthy {
				healthy++
			}
		}
	}
	return registered, healthy, nil
}

// arnSuffix extracts "app/name/id" from a load balancer ARN.
func arnSuffix(arn string) string {
	const marker = ":loadbalancer/"
	if i := strings.Index(arn, marker); i >= 0 {
		return arn[i+len(marker):]
	}
	return arn
}
