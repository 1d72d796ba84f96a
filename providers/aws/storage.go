package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cloudsweep/cloudsweep/types"
)

// listBuckets discovers S3 buckets. Public exposure comes from the
// bucket policy status; a bucket whose status cannot be read is
// reported private rather than failing the whole category.
func (p *Provider) listBuckets(ctx context.Context) ([]types.Resource, error) {
	output, err := p.s3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	resources := make([]types.Resource, 0, len(output.Buckets))
	for _, bucket := range output.Buckets {
		name := aws.ToString(bucket.Name)

		resource := types.Resource{
			Category:  types.CategoryBucket,
			ID:        name,
			Name:      name,
			Status:    types.StatusActive,
			CreatedAt: aws.ToTime(bucket.CreationDate),
		}
		if p.bucketIsPublic(ctx, name) {
			resource.PublicPrincipals = []string{"*"}
		}

		resources = append(resources, resource)
	}
	return resources, nil
}

func (p *Provider) bucketIsPublic(ctx context.Context, name string) bool {
	output, err := p.s3Client.GetBucketPolicyStatus(ctx, &s3.GetBucketPolicyStatusInput{
		Bucket: aws.String(name),
	})
	if err != nil || output.PolicyStatus == nil {
		return false
	}
	return aws.ToBool(output.PolicyStatus.IsPublic)
}
