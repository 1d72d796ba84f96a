package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/cloudsweep/cloudsweep/types"
)

const gib = 1 << 30

// listVolumes discovers EBS volumes as disk records.
func (p *Provider) listVolumes(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	paginator := ec2.NewDescribeVolumesPaginator(p.ec2Client, &ec2.DescribeVolumesInput{})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list EBS volumes: %w", err)
		}
		for _, volume := range output.Volumes {
			resources = append(resources, buildVolumeResource(volume))
		}
	}

	return resources, nil
}

// buildVolumeResource converts an EBS volume to a disk record. The
// attachment count doubles as the usage signal: an unattached volume
// has known-zero usage.
func buildVolumeResource(volume ec2types.Volume) types.Resource {
	attachments := make([]string, 0, len(volume.Attachments))
	for _, att := range volume.Attachments {
		attachments = append(attachments, aws.ToString(att.InstanceId))
	}

	return types.Resource{
		Category:   types.CategoryDisk,
		ID:         aws.ToString(volume.VolumeId),
		Name:       nameFromEC2Tags(volume.Tags, aws.ToString(volume.VolumeId)),
		SizeBytes:  int64(aws.ToInt32(volume.Size)) * gib,
		Status:     volumeStatus(volume.State),
		Labels:     labelsFromEC2Tags(volume.Tags),
		CreatedAt:  aws.ToTime(volume.CreateTime),
		Usage:      types.Usage64(int64(len(attachments))),
		AttachedTo: attachments,
	}
}

func volumeStatus(state ec2types.VolumeState) types.Status {
	switch state {
	case ec2types.VolumeStateInUse:
		return types.StatusActive
	case ec2types.VolumeStateAvailable:
		return types.StatusInactive
	default:
		return types.StatusUnknown
	}
}

// listSnapshots discovers EBS snapshots owned by this account.
func (p *Provider) listSnapshots(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	paginator := ec2.NewDescribeSnapshotsPaginator(p.ec2Client, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
	})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", err)
		}
		for _, snapshot := range output.Snapshots {
			resources = append(resources, buildSnapshotResource(snapshot))
		}
	}

	return resources, nil
}

// buildSnapshotResource converts an EBS snapshot to a snapshot record.
// Usage is left unknown: AWS has no cheap read signal for snapshots,
// and unknown keeps them out of automatic cleanup.
func buildSnapshotResource(snapshot ec2types.Snapshot) types.Resource {
	var attachedTo []string
	if volumeID := aws.ToString(snapshot.VolumeId); volumeID != "" && volumeID != "vol-ffffffff" {
		attachedTo = []string{volumeID}
	}

	return types.Resource{
		Category:   types.CategorySnapshot,
		ID:         aws.ToString(snapshot.SnapshotId),
		Name:       nameFromEC2Tags(snapshot.Tags, aws.ToString(snapshot.SnapshotId)),
		SizeBytes:  int64(aws.ToInt32(snapshot.VolumeSize)) * gib,
		Status:     types.StatusActive,
		Labels:     labelsFromEC2Tags(snapshot.Tags),
		CreatedAt:  aws.ToTime(snapshot.StartTime),
		AttachedTo: attachedTo,
	}
}

// listImages discovers AMIs owned by this account.
func (p *Provider) listImages(ctx context.Context) ([]types.Resource, error) {
	output, err := p.ec2Client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Owners: []string{"self"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	resources := make([]types.Resource, 0, len(output.Images))
	for _, image := range output.Images {
		resources = append(resources, buildImageResource(image))
	}
	return resources, nil
}

func buildImageResource(image ec2types.Image) types.Resource {
	var createdAt time.Time
	if ts, err := time.Parse(time.RFC3339, aws.ToString(image.CreationDate)); err == nil {
		createdAt = ts
	}

	return types.Resource{
		Category:  types.CategoryImage,
		ID:        aws.ToString(image.ImageId),
		Name:      aws.ToString(image.Name),
		Status:    types.StatusActive,
		Labels:    labelsFromEC2Tags(image.Tags),
		CreatedAt: createdAt,
	}
}

// listInstances discovers EC2 instances.
func (p *Provider) listInstances(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	paginator := ec2.NewDescribeInstancesPaginator(p.ec2Client, &ec2.DescribeInstancesInput{})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list instances: %w", err)
		}
		for _, reservation := range output.Reservations {
			for _, instance := range reservation.Instances {
				resources = append(resources, buildInstanceResource(instance))
			}
		}
	}

	return resources, nil
}

func buildInstanceResource(instance ec2types.Instance) types.Resource {
	var status types.Status
	if instance.State != nil {
		switch instance.State.Name {
		case ec2types.InstanceStateNameRunning:
			status = types.StatusRunning
		case ec2types.InstanceStateNameStopped:
			status = types.StatusStopped
		default:
			status = types.StatusUnknown
		}
	}

	return types.Resource{
		Category:  types.CategoryInstance,
		ID:        aws.ToString(instance.InstanceId),
		Name:      nameFromEC2Tags(instance.Tags, aws.ToString(instance.InstanceId)),
		Status:    status,
		Labels:    labelsFromEC2Tags(instance.Tags),
		CreatedAt: aws.ToTime(instance.LaunchTime),
	}
}

// listSecurityGroups discovers security groups as firewall rules.
func (p *Provider) listSecurityGroups(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	paginator := ec2.NewDescribeSecurityGroupsPaginator(p.ec2Client, &ec2.DescribeSecurityGroupsInput{})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list security groups: %w", err)
		}
		for _, group := range output.SecurityGroups {
			resources = append(resources, buildSecurityGroupResource(group))
		}
	}

	return resources, nil
}

// buildSecurityGroupResource converts a security group to a firewall
// rule record. Any world-open ingress range becomes a public principal.
func buildSecurityGroupResource(group ec2types.SecurityGroup) types.Resource {
	var public []string
	for _, perm := range group.IpPermissions {
		for _, r := range perm.IpRanges {
			if aws.ToString(r.CidrIp) == "0.0.0.0/0" {
				public = append(public, "0.0.0.0/0")
			}
		}
		for _, r := range perm.Ipv6Ranges {
			if aws.ToString(r.CidrIpv6) == "::/0" {
				public = append(public, "::/0")
			}
		}
	}

	return types.Resource{
		Category:         types.CategoryFirewallRule,
		ID:               aws.ToString(group.GroupId),
		Name:             aws.ToString(group.GroupName),
		Status:           types.StatusActive,
		Labels:           labelsFromEC2Tags(group.Tags),
		PublicPrincipals: dedupe(public),
	}
}

// volumeUsage reports the live attachment count for a volume.
func (p *Provider) volumeUsage(ctx context.Context, id string) (*int64, error) {
	output, err := p.ec2Client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{
		VolumeIds: []string{id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe volume %s: %w", id, err)
	}
	if len(output.Volumes) == 0 {
		return nil, fmt.Errorf("volume %s not found", id)
	}
	return types.Usage64(int64(len(output.Volumes[0].Attachments))), nil
}

// volumeSnapshots lists snapshots taken from a volume.
func (p *Provider) volumeSnapshots(ctx context.Context, id string) ([]string, error) {
	output, err := p.ec2Client.DescribeSnapshots(ctx, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
		Filters: []ec2types.Filter{
			{Name: aws.String("volume-id"), Values: []string{id}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots of %s: %w", id, err)
	}

	ids := make([]string, 0, len(output.Snapshots))
	for _, snapshot := range output.Snapshots {
		ids = append(ids, aws.ToString(snapshot.SnapshotId))
	}
	return ids, nil
}

// snapshotImages lists AMIs registered from a snapshot.
func (p *Provider) snapshotImages(ctx context.Context, id string) ([]string, error) {
	output, err := p.ec2Client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Owners: []string{"self"},
		Filters: []ec2types.Filter{
			{Name: aws.String("block-device-mapping.snapshot-id"), Values: []string{id}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images of %s: %w", id, err)
	}

	ids := make([]string, 0, len(output.Images))
	for _, image := range output.Images {
		ids = append(ids, aws.ToString(image.ImageId))
	}
	return ids, nil
}

func dedupe(values []string) []string {
	if len(values) < 2 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
