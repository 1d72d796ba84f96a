package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/eks"

	"github.com/cloudsweep/cloudsweep/types"
)

// listClusters discovers EKS clusters.
func (p *Provider) listClusters(ctx context.Context) ([]types.Resource, error) {
	listOutput, err := p.eksClient.ListClusters(ctx, &eks.ListClustersInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list EKS clusters: %w", err)
	}

	resources := make([]types.Resource, 0, len(listOutput.Clusters))
	for _, clusterName := range listOutput.Clusters {
		describeOutput, err := p.eksClient.DescribeCluster(ctx, &eks.DescribeClusterInput{
			Name: aws.String(clusterName),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe EKS cluster %s: %w", clusterName, err)
		}

		cluster := describeOutput.Cluster
		var labels map[string]string
		if len(cluster.Tags) > 0 {
			labels = cluster.Tags
		}

		resources = append(resources, types.Resource{
			Category:  types.CategoryCluster,
			ID:        aws.ToString(cluster.Name),
			Name:      aws.ToString(cluster.Name),
			Status:    clusterStatus(string(cluster.Status)),
			Labels:    labels,
			CreatedAt: aws.ToTime(cluster.CreatedAt),
		})
	}

	return resources, nil
}

func clusterStatus(status string) types.Status {
	switch status {
	case "ACTIVE":
		return types.StatusActive
	case "DELETING", "FAILED":
		return types.StatusInactive
	default:
		return types.StatusUnknown
	}
}

// listServices discovers ECS services across all ECS clusters. The
// running task count is the service's usage signal.
func (p *Provider) listServices(ctx context.Context) ([]types.Resource, error) {
	clustersOutput, err := p.ecsClient.ListClusters(ctx, &ecs.ListClustersInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list ECS clusters: %w", err)
	}

	var resources []types.Resource
	for _, clusterArn := range clustersOutput.ClusterArns {
		servicesOutput, err := p.ecsClient.ListServices(ctx, &ecs.ListServicesInput{
			Cluster: aws.String(clusterArn),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list services in %s: %w", clusterArn, err)
		}
		if len(servicesOutput.ServiceArns) == 0 {
			continue
		}

		describeOutput, err := p.ecsClient.DescribeServices(ctx, &ecs.DescribeServicesInput{
			Cluster:  aws.String(clusterArn),
			Services: servicesOutput.ServiceArns,
			Include:  []ecstypes.ServiceField{ecstypes.ServiceFieldTags},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe services in %s: %w", clusterArn, err)
		}

		for _, service := range describeOutput.Services {
			resources = append(resources, buildServiceResource(service))
		}
	}

	return resources, nil
}

func buildServiceResource(service ecstypes.Service) types.Resource {
	var status types.Status
	switch aws.ToString(service.Status) {
	case "ACTIVE":
		status = types.StatusActive
	case "INACTIVE", "DRAINING":
		status = types.StatusInactive
	default:
		status = types.StatusUnknown
	}

	var labels map[string]string
	if len(service.Tags) > 0 {
		labels = make(map[string]string, len(service.Tags))
		for _, tag := range service.Tags {
			labels[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
	}

	return types.Resource{
		Category:  types.CategoryService,
		ID:        aws.ToString(service.ServiceArn),
		Name:      aws.ToString(service.ServiceName),
		Status:    status,
		Labels:    labels,
		CreatedAt: aws.ToTime(service.CreatedAt),
		Usage:     types.Usage64(int64(service.RunningCount)),
	}
}

// serviceUsage reports the live running task count for an ECS service.
func (p *Provider) serviceUsage(ctx context.Context, arn string) (*int64, error) {
	cluster, _, err := parseECSServiceARN(arn)
	if err != nil {
		return nil, err
	}

	output, err := p.ecsClient.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(cluster),
		Services: []string{arn},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe service %s: %w", arn, err)
	}
	if len(output.Services) == 0 {
		return nil, fmt.Errorf("service %s not found", arn)
	}
	return types.Usage64(int64(output.Services[0].RunningCount)), nil
}

func isECSServiceARN(id string) bool {
	return strings.HasPrefix(id, "arn:aws:ecs:") && strings.Contains(id, ":service/")
}

// parseECSServiceARN extracts cluster and service names from
// arn:aws:ecs:region:account:service/cluster/name.
func parseECSServiceARN(arn string) (cluster, service string, err error) {
	idx := strings.Index(arn, ":service/")
	if idx < 0 {
		return "", "", fmt.Errorf("not an ECS service ARN: %s", arn)
	}
	parts := strings.Split(arn[idx+len(":service/"):], "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("unexpected ECS service ARN format: %s", arn)
	}
	return parts[0], parts[1], nil
}
