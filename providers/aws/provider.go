// Package aws adapts AWS to the ResourceProvider capability. Each
// category maps to one SDK service; categories AWS has no analogue
// for (enabled APIs, billing budgets) yield empty lists.
package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cloudsweep/cloudsweep/providers"
	"github.com/cloudsweep/cloudsweep/types"
)

func init() {
	providers.RegisterProvider("aws", func(ctx context.Context, cfg providers.ProviderConfig) (providers.ResourceProvider, error) {
		return NewProvider(ctx, cfg.Region, cfg.Project)
	})
}

// Provider implements ResourceProvider using AWS SDK v2.
type Provider struct {
	ec2Client *ec2.Client
	s3Client  *s3.Client
	rdsClient *rds.Client
	eksClient *eks.Client
	ecsClient *ecs.Client
	iamClient *iam.Client
	kmsClient *kms.Client
	region    string
	project   string
}

// NewProvider creates an AWS provider for one region. project is the
// logical project identity used in reports (the account alias).
func NewProvider(ctx context.Context, region, project string) (*Provider, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{
		ec2Client: ec2.NewFromConfig(cfg),
		s3Client:  s3.NewFromConfig(cfg),
		rdsClient: rds.NewFromConfig(cfg),
		eksClient: eks.NewFromConfig(cfg),
		ecsClient: ecs.NewFromConfig(cfg),
		iamClient: iam.NewFromConfig(cfg),
		kmsClient: kms.NewFromConfig(cfg),
		region:    region,
		project:   project,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "aws"
}

// Project returns the logical project identity.
func (p *Provider) Project() string {
	return p.project
}

// List returns all resources of one category.
func (p *Provider) List(ctx context.Context, category types.Category) ([]types.Resource, error) {
	switch category {
	case types.CategoryDisk:
		return p.listVolumes(ctx)
	case types.CategorySnapshot:
		return p.listSnapshots(ctx)
	case types.CategoryImage:
		return p.listImages(ctx)
	case types.CategoryInstance:
		return p.listInstances(ctx)
	case types.CategoryFirewallRule:
		return p.listSecurityGroups(ctx)
	case types.CategoryBucket:
		return p.listBuckets(ctx)
	case types.CategorySQLInstance:
		return p.listDBInstances(ctx)
	case types.CategoryCluster:
		return p.listClusters(ctx)
	case types.CategoryService:
		return p.listServices(ctx)
	case types.CategoryIAMBinding:
		return p.listRoles(ctx)
	case types.CategorySecret:
		return p.listKeys(ctx)
	case types.CategoryAPI, types.CategoryBudget:
		// No AWS analogue in this adapter.
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown category: %s", category)
	}
}

// Usage returns a usage count where AWS exposes one cheaply, nil
// (unknown) otherwise. Unknown keeps a resource out of cleanup.
func (p *Provider) Usage(ctx context.Context, id string) (*int64, error) {
	switch {
	case strings.HasPrefix(id, "vol-"):
		return p.volumeUsage(ctx, id)
	case isECSServiceARN(id):
		return p.serviceUsage(ctx, id)
	default:
		return nil, nil
	}
}

// Dependents returns resources that depend on id: snapshots for a
// volume, registered images for a snapshot.
func (p *Provider) Dependents(ctx context.Context, id string) ([]string, error) {
	switch {
	case strings.HasPrefix(id, "vol-"):
		return p.volumeSnapshots(ctx, id)
	case strings.HasPrefix(id, "snap-"):
		return p.snapshotImages(ctx, id)
	default:
		return nil, nil
	}
}
