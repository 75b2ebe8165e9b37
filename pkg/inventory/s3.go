package inventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// S3Collector discovers buckets and samples object metadata for the
// tiering analyzer. The sample is capped so a huge bucket cannot stall
// discovery.
type S3Collector struct {
	client    *s3.Client
	sampleCap int
}

// NewS3Collector builds a collector over an S3 client.
func NewS3Collector(client *s3.Client, sampleCap int) *S3Collector {
	if sampleCap <= 0 {
		sampleCap = 1000
	}
	return &S3Collector{client: client, sampleCap: sampleCap}
}

func (c *S3Collector) Name() string { return "s3" }

func (c *S3Collector) Collect(ctx context.Context) ([]models.ResourceDescriptor, error) {
	buckets, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets failed: %w", err)
	}

	var descriptors []models.ResourceDescriptor
	for _, bucket := range buckets.Buckets {
		name := aws.ToString(bucket.Name)

		sample, err := c.sampleObjects(ctx, name)
		if err != nil {
			return nil, err
		}

		desc := models.ResourceDescriptor{
			ID:   name,
			Kind: models.KindBucket,
			Attributes: models.Attributes{
				Name:               name,
				HasLifecyclePolicy: c.hasLifecyclePolicy(ctx, name),
				ObjectSample:       sample,
			},
		}
		if bucket.CreationDate != nil {
			desc.CreatedAt = *bucket.CreationDate
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

func (c *S3Collector) sampleObjects(ctx context.Context, bucket string) ([]models.ObjectMeta, error) {
	var sample []models.ObjectMeta

	p := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	for p.HasMorePages() && len(sample) < c.sampleCap {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects for %s failed: %w", bucket, err)
		}
		for _, obj := range page.Contents {
			if len(sample) >= c.sampleCap {
				break
			}
			meta := models.ObjectMeta{
				SizeBytes:    aws.ToInt64(obj.Size),
				StorageClass: string(obj.StorageClass),
			}
			if obj.LastModified != nil {
				meta.LastModified = *obj.LastModified
			}
			sample = append(sample, meta)
		}
	}
	return sample, nil
}

// hasLifecyclePolicy treats any lookup failure as "no policy"; the
// common error is NoSuchLifecycleConfiguration.
func (c *S3Collector) hasLifecyclePolicy(ctx context.Context, bucket string) bool {
	out, err := c.client.GetBucketLifecycleConfiguration(ctx, &s3.GetBucketLifecycleConfigurationInput{
		Bucket: aws.String(bucket),
	})
	return err == nil && len(out.Rules) > 0
}
