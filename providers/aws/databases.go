package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/cloudsweep/cloudsweep/types"
)

// listDBInstances discovers RDS instances as sql_instance records.
func (p *Provider) listDBInstances(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	paginator := rds.NewDescribeDBInstancesPaginator(p.rdsClient, &rds.DescribeDBInstancesInput{})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list RDS instances: %w", err)
		}
		for _, instance := range output.DBInstances {
			resources = append(resources, buildDBInstanceResource(instance))
		}
	}

	return resources, nil
}

func buildDBInstanceResource(instance rdstypes.DBInstance) types.Resource {
	var status types.Status
	switch aws.ToString(instance.DBInstanceStatus) {
	case "available":
		status = types.StatusRunning
	case "stopped":
		status = types.StatusStopped
	default:
		status = types.StatusUnknown
	}

	var public []string
	if aws.ToBool(instance.PubliclyAccessible) {
		public = []string{"internet"}
	}

	return types.Resource{
		Category:         types.CategorySQLInstance,
		ID:               aws.ToString(instance.DBInstanceIdentifier),
		Name:             aws.ToString(instance.DBInstanceIdentifier),
		SizeBytes:        int64(aws.ToInt32(instance.AllocatedStorage)) * gib,
		Status:           status,
		Labels:           labelsFromRDSTags(instance.TagList),
		CreatedAt:        aws.ToTime(instance.InstanceCreateTime),
		PublicPrincipals: public,
	}
}

func labelsFromRDSTags(tags []rdstypes.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	labels := make(map[string]string, len(tags))
	for _, tag := range tags {
		labels[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return labels
}
