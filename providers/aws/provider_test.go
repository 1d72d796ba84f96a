package aws

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsweep/cloudsweep/types"
)

func TestBuildDBInstanceResource(t *testing.T) {
	created := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	instance := rdstypes.DBInstance{
		DBInstanceIdentifier: aws.String("orders-db"),
		DBInstanceStatus:     aws.String("available"),
		AllocatedStorage:     aws.Int32(200),
		InstanceCreateTime:   aws.Time(created),
		PubliclyAccessible:   aws.Bool(true),
		TagList: []rdstypes.Tag{
			{Key: aws.String("env"), Value: aws.String("prod")},
		},
	}

	resource := buildDBInstanceResource(instance)

	assert.Equal(t, types.CategorySQLInstance, resource.Category)
	assert.Equal(t, "orders-db", resource.ID)
	assert.Equal(t, types.StatusRunning, resource.Status)
	assert.Equal(t, int64(200)*gib, resource.SizeBytes)
	assert.Equal(t, created, resource.CreatedAt)
	assert.Equal(t, []string{"internet"}, resource.PublicPrincipals)
	assert.Equal(t, "prod", resource.Labels["env"])
}

func TestBuildDBInstanceResourceStoppedPrivate(t *testing.T) {
	instance := rdstypes.DBInstance{
		DBInstanceIdentifier: aws.String("orders-db"),
		DBInstanceStatus:     aws.String("stopped"),
		PubliclyAccessible:   aws.Bool(false),
	}

	resource := buildDBInstanceResource(instance)
	assert.Equal(t, types.StatusStopped, resource.Status)
	assert.Empty(t, resource.PublicPrincipals)
}

func TestBuildServiceResource(t *testing.T) {
	service := ecstypes.Service{
		ServiceArn:   aws.String("arn:aws:ecs:us-east-1:123456789012:service/prod/api"),
		ServiceName:  aws.String("api"),
		Status:       aws.String("ACTIVE"),
		RunningCount: 3,
		Tags: []ecstypes.Tag{
			{Key: aws.String("team"), Value: aws.String("edge")},
		},
	}

	resource := buildServiceResource(service)

	assert.Equal(t, types.CategoryService, resource.Category)
	assert.Equal(t, types.StatusActive, resource.Status)
	require.NotNil(t, resource.Usage)
	assert.Equal(t, int64(3), *resource.Usage)
	assert.Equal(t, "edge", resource.Labels["team"])
}

func TestParseECSServiceARN(t *testing.T) {
	cluster, service, err := parseECSServiceARN("arn:aws:ecs:us-east-1:123456789012:service/prod/api")
	require.NoError(t, err)
	assert.Equal(t, "prod", cluster)
	assert.Equal(t, "api", service)

	_, _, err = parseECSServiceARN("arn:aws:ecs:us-east-1:123456789012:cluster/prod")
	assert.Error(t, err)
}

func TestARNShapeHelpers(t *testing.T) {
	assert.True(t, isECSServiceARN("arn:aws:ecs:us-east-1:123456789012:service/prod/api"))
	assert.False(t, isECSServiceARN("arn:aws:ecs:us-east-1:123456789012:cluster/prod"))

	assert.True(t, isIAMRoleARN("arn:aws:iam::123456789012:role/deployer"))
	assert.False(t, isIAMRoleARN("arn:aws:iam::123456789012:user/alice"))

	assert.True(t, isKMSKeyARN("arn:aws:kms:us-east-1:123456789012:key/1234-abcd"))
	assert.False(t, isKMSKeyARN("arn:aws:kms:us-east-1:123456789012:alias/app"))
}

func TestDisableUnsupportedOutsideKMS(t *testing.T) {
	// Rejected before any client call, so a zero Provider suffices.
	p := &Provider{}

	for _, id := range []string{"vol-0abc", "i-0abc", "orders-db", "arn:aws:iam::123456789012:role/deployer"} {
		assert.Error(t, p.Disable(context.Background(), id), id)
	}
}

func TestClusterStatusMapping(t *testing.T) {
	assert.Equal(t, types.StatusActive, clusterStatus("ACTIVE"))
	assert.Equal(t, types.StatusInactive, clusterStatus("DELETING"))
	assert.Equal(t, types.StatusUnknown, clusterStatus("CREATING"))
}
