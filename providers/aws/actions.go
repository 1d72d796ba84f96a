package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Delete removes a resource. The target service is resolved from the
// ID shape: EC2 IDs carry a prefix, IAM/KMS/ECS IDs are ARNs, and bare
// names fall through to resolveAndDelete.
func (p *Provider) Delete(ctx context.Context, id string) error {
	switch {
	case strings.HasPrefix(id, "vol-"):
		_, err := p.ec2Client.DeleteVolume(ctx, &ec2.DeleteVolumeInput{
			VolumeId: aws.String(id),
		})
		if err != nil {
			return fmt.Errorf("failed to delete volume %s: %w", id, err)
		}
		return nil

	case strings.HasPrefix(id, "snap-"):
		_, err := p.ec2Client.DeleteSnapshot(ctx, &ec2.DeleteSnapshotInput{
			SnapshotId: aws.String(id),
		})
		if err != nil {
			return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
		}
		return nil

	case strings.HasPrefix(id, "ami-"):
		_, err := p.ec2Client.DeregisterImage(ctx, &ec2.DeregisterImageInput{
			ImageId: aws.String(id),
		})
		if err != nil {
			return fmt.Errorf("failed to deregister image %s: %w", id, err)
		}
		return nil

	case strings.HasPrefix(id, "i-"):
		_, err := p.ec2Client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
			InstanceIds: []string{id},
		})
		if err != nil {
			return fmt.Errorf("failed to terminate instance %s: %w", id, err)
		}
		return nil

	case strings.HasPrefix(id, "sg-"):
		_, err := p.ec2Client.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
			GroupId: aws.String(id),
		})
		if err != nil {
			return fmt.Errorf("failed to delete security group %s: %w", id, err)
		}
		return nil

	case isIAMRoleARN(id):
		name := id[strings.LastIndex(id, "/")+1:]
		_, err := p.iamClient.DeleteRole(ctx, &iam.DeleteRoleInput{
			RoleName: aws.String(name),
		})
		if err != nil {
			return fmt.Errorf("failed to delete role %s: %w", name, err)
		}
		return nil

	case isKMSKeyARN(id):
		// KMS keys cannot be deleted immediately; schedule with the
		// shortest allowed window.
		_, err := p.kmsClient.ScheduleKeyDeletion(ctx, &kms.ScheduleKeyDeletionInput{
			KeyId:               aws.String(id),
			PendingWindowInDays: aws.Int32(7),
		})
		if err != nil {
			return fmt.Errorf("failed to schedule key deletion %s: %w", id, err)
		}
		return nil

	case isECSServiceARN(id):
		cluster, _, err := parseECSServiceARN(id)
		if err != nil {
			return err
		}
		_, err = p.ecsClient.DeleteService(ctx, &ecs.DeleteServiceInput{
			Cluster: aws.String(cluster),
			Service: aws.String(id),
			Force:   aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("failed to delete service %s: %w", id, err)
		}
		return nil

	default:
		return p.resolveAndDelete(ctx, id)
	}
}

// resolveAndDelete handles bare-name IDs, which can be an S3 bucket,
// an RDS instance, or an EKS cluster. Probes each in turn.
func (p *Provider) resolveAndDelete(ctx context.Context, id string) error {
	if _, err := p.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(id)}); err == nil {
		if _, err := p.s3Client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(id)}); err != nil {
			return fmt.Errorf("failed to delete bucket %s: %w", id, err)
		}
		return nil
	}

	describeOutput, err := p.rdsClient.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(id),
	})
	if err == nil && len(describeOutput.DBInstances) > 0 {
		_, err := p.rdsClient.DeleteDBInstance(ctx, &rds.DeleteDBInstanceInput{
			DBInstanceIdentifier: aws.String(id),
			SkipFinalSnapshot:    aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("failed to delete DB instance %s: %w", id, err)
		}
		return nil
	}

	if _, err := p.eksClient.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: aws.String(id)}); err == nil {
		if _, err := p.eksClient.DeleteCluster(ctx, &eks.DeleteClusterInput{Name: aws.String(id)}); err != nil {
			return fmt.Errorf("failed to delete cluster %s: %w", id, err)
		}
		return nil
	}

	return fmt.Errorf("cannot resolve %s to a deletable resource", id)
}

// Disable turns a resource off without removing it. Only KMS keys
// support it in this adapter. The cleanup engine reserves the disable
// action for the api category, which this adapter never emits, so
// engine-driven key removal goes through Delete (ScheduleKeyDeletion);
// the KMS path here serves direct callers.
func (p *Provider) Disable(ctx context.Context, id string) error {
	if isKMSKeyARN(id) {
		_, err := p.kmsClient.DisableKey(ctx, &kms.DisableKeyInput{
			KeyId: aws.String(id),
		})
		if err != nil {
			return fmt.Errorf("failed to disable key %s: %w", id, err)
		}
		return nil
	}
	return fmt.Errorf("disable is not supported for %s", id)
}

func isIAMRoleARN(id string) bool {
	return strings.HasPrefix(id, "arn:aws:iam:") && strings.Contains(id, ":role/")
}

func isKMSKeyARN(id string) bool {
	return strings.HasPrefix(id, "arn:aws:kms:") && strings.Contains(id, ":key/")
}
