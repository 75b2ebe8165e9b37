package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// EC2Collector discovers instances, elastic IPs, volumes, and NAT
// gateways from one EC2 client.
type EC2Collector struct {
	client *ec2.Client
}

// NewEC2Collector builds a collector over an EC2 client.
func NewEC2Collector(client *ec2.Client) *EC2Collector {
	return &EC2Collector{client: client}
}

func (c *EC2Collector) Name() string { return "ec2" }

func (c *EC2Collector) Collect(ctx context.Context) ([]models.ResourceDescriptor, error) {
	var all []models.ResourceDescriptor

	instances, err := c.collectInstances(ctx)
	if err != nil {
		return nil, err
	}
	all = append(all, instances...)

	addresses, err := c.collectAddresses(ctx)
	if err != nil {
		return nil, err
	}
	all = append(all, addresses...)

	volumes, err := c.collectVolumes(ctx)
	if err != nil {
		return nil, err
	}
	all = append(all, volumes...)

	gateways, err := c.collectNATGateways(ctx)
	if err != nil {
		return nil, err
	}
	all = append(all, gateways...)

	return all, nil
}

func (c *EC2Collector) collectInstances(ctx context.Context) ([]models.ResourceDescriptor, error) {
	var descriptors []models.ResourceDescriptor

	p := ec2.NewDescribeInstancesPaginator(c.client, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{{
			Name:   aws.String("instance-state-name"),
			Values: []string{"running"},
		}},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe instances failed: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				desc := models.ResourceDescriptor{
					ID:    aws.ToString(inst.InstanceId),
					Kind:  models.KindCompute,
					Shape: string(inst.InstanceType),
					Attributes: models.Attributes{
						Name: nameTag(inst.Tags),
					},
				}
				if inst.LaunchTime != nil {
					desc.CreatedAt = *inst.LaunchTime
				}
				descriptors = append(descriptors, desc)
			}
		}
	}
	return descriptors, nil
}

func (c *EC2Collector) collectAddresses(ctx context.Context) ([]models.ResourceDescriptor, error) {
	out, err := c.client.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("describe addresses failed: %w", err)
	}

	var descriptors []models.ResourceDescriptor
	for _, addr := range out.Addresses {
		id := aws.ToString(addr.AllocationId)
		if id == "" {
			id = aws.ToString(addr.PublicIp)
		}
		descriptors = append(descriptors, models.ResourceDescriptor{
			ID:   id,
			Kind: models.KindElasticIP,
			Attributes: models.Attributes{
				Name:               nameTag(addr.Tags),
				InstanceID:         aws.ToString(addr.InstanceId),
				NetworkInterfaceID: aws.ToString(addr.NetworkInterfaceId),
				AssociationID:      aws.ToString(addr.AssociationId),
			},
		})
	}
	return descriptors, nil
}

func (c *EC2Collector) collectVolumes(ctx context.Context) ([]models.ResourceDescriptor, error) {
	var descriptors []models.ResourceDescriptor

	p := ec2.NewDescribeVolumesPaginator(c.client, &ec2.DescribeVolumesInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe volumes failed: %w", err)
		}
		for _, vol := range page.Volumes {
			desc := models.ResourceDescriptor{
				ID:   aws.ToString(vol.VolumeId),
				Kind: models.KindVolume,
				Attributes: models.Attributes{
					Name:        nameTag(vol.Tags),
					StorageType: string(vol.VolumeType),
					SizeGiB:     int64(aws.ToInt32(vol.Size)),
					Attached:    len(vol.Attachments) > 0,
				},
			}
			if vol.CreateTime != nil {
				desc.CreatedAt = *vol.CreateTime
			}
			descriptors = append(descriptors, desc)
		}
	}
	return descriptors, nil
}

func (c *EC2Collector) collectNATGateways(ctx context.Context) ([]models.ResourceDescriptor, error) {
	out, err := c.client.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{})
	if err != nil {
		return nil, fmt.Errorf("describe NAT gateways failed: %w", err)
	}

	endpointVPCs, err := c.vpcsWithGatewayEndpoints(ctx)
	if err != nil {
		return nil, err
	}

	var descriptors []models.ResourceDescriptor
	for _, gw := range out.NatGateways {
		if gw.State != ec2types.NatGatewayStateAvailable {
			continue
		}
		desc := models.ResourceDescriptor{
			ID:   aws.ToString(gw.NatGatewayId),
			Kind: models.KindNATGateway,
			Attributes: models.Attributes{
				Name:                nameTag(gw.Tags),
				SubnetID:            aws.ToString(gw.SubnetId),
				VPCID:               aws.ToString(gw.VpcId),
				HasGatewayEndpoints: endpointVPCs[aws.ToString(gw.VpcId)],
			},
		}
		if gw.CreateTime != nil {
			desc.CreatedAt = *gw.CreateTime
		}
		descriptors = append(descriptors, desc)
	}

	markRedundantGateways(descriptors)
	return descriptors, nil
}

// vpcsWithGatewayEndpoints finds VPCs that already route S3 or DynamoDB
// through a gateway endpoint.
func (c *EC2Collector) vpcsWithGatewayEndpoints(ctx context.Context) (map[string]bool, error) {
	out, err := c.client.DescribeVpcEndpoints(ctx, &ec2.DescribeVpcEndpointsInput{
		Filters: []ec2types.Filter{{
			Name:   aws.String("vpc-endpoint-type"),
			Values: []string{"Gateway"},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("describe VPC endpoints failed: %w", err)
	}

	vpcs := make(map[string]bool)
	for _, ep := range out.VpcEndpoints {
		service := aws.ToString(ep.ServiceName)
		if strings.HasSuffix(service, ".s3") || strings.HasSuffix(service, ".dynamodb") {
			vpcs[aws.ToString(ep.VpcId)] = true
		}
	}
	return vpcs, nil
}

// markRedundantGateways flags every NAT gateway beyond the first in each
// subnet. IDs are sorted first so the same gateway is flagged every run.
func markRedundantGateways(gateways []models.ResourceDescriptor) {
	sort.Slice(gateways, func(i, j int) bool { return gateways[i].ID < gateways[j].ID })
	seen := make(map[string]bool)
	for i := range gateways {
		subnet := gateways[i].Attributes.SubnetID
		if subnet == "" {
			continue
		}
		if seen[subnet] {
			gateways[i].Attributes.RedundantInSubnet = true
		}
		seen[subnet] = true
	}
}

func nameTag(tags []ec2types.Tag) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == "Name" {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}
