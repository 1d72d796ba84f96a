package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmstypes "github.com/aws/aws-sdk-go-v2/service/kms/types"

	"github.com/cloudsweep/cloudsweep/types"
)

// listRoles discovers IAM roles as iam_binding records. Roles carry no
// region; the one adapter instance owns them all.
func (p *Provider) listRoles(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	paginator := iam.NewListRolesPaginator(p.iamClient, &iam.ListRolesInput{})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list IAM roles: %w", err)
		}
		for _, role := range output.Roles {
			resources = append(resources, types.Resource{
				Category:  types.CategoryIAMBinding,
				ID:        aws.ToString(role.Arn),
				Name:      aws.ToString(role.RoleName),
				Status:    types.StatusActive,
				CreatedAt: aws.ToTime(role.CreateDate),
			})
		}
	}

	return resources, nil
}

// listKeys discovers customer-managed KMS keys as secret records.
// AWS-managed keys are skipped since they cannot be removed anyway.
func (p *Provider) listKeys(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	paginator := kms.NewListKeysPaginator(p.kmsClient, &kms.ListKeysInput{})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list KMS keys: %w", err)
		}
		for _, entry := range output.Keys {
			describeOutput, err := p.kmsClient.DescribeKey(ctx, &kms.DescribeKeyInput{
				KeyId: entry.KeyId,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to describe key %s: %w", aws.ToString(entry.KeyId), err)
			}

			metadata := describeOutput.KeyMetadata
			if metadata.KeyManager != kmstypes.KeyManagerTypeCustomer {
				continue
			}

			resources = append(resources, types.Resource{
				Category:  types.CategorySecret,
				ID:        aws.ToString(metadata.Arn),
				Name:      aws.ToString(metadata.KeyId),
				Status:    keyStatus(metadata),
				CreatedAt: aws.ToTime(metadata.CreationDate),
			})
		}
	}

	return resources, nil
}

func keyStatus(metadata *kmstypes.KeyMetadata) types.Status {
	if !metadata.Enabled {
		return types.StatusInactive
	}
	switch metadata.KeyState {
	case kmstypes.KeyStateEnabled:
		return types.StatusActive
	case kmstypes.KeyStateDisabled, kmstypes.KeyStatePendingDeletion:
		return types.StatusInactive
	default:
		return types.StatusUnknown
	}
}
