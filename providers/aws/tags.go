package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// labelsFromEC2Tags converts EC2 tags to the label map. Returns nil
// for untagged resources so the unlabeled rule sees an empty set.
func labelsFromEC2Tags(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	labels := make(map[string]string, len(tags))
	for _, tag := range tags {
		labels[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return labels
}

// nameFromEC2Tags prefers the Name tag, falling back to the ID.
func nameFromEC2Tags(tags []ec2types.Tag, fallback string) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == "Name" {
			if name := aws.ToString(tag.Value); name != "" {
				return name
			}
		}
	}
	return fallback
}
