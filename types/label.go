package types

// Label is a classification assigned to a resource. A resource may
// hold several labels at once (expensive + unused is common).
type Label string

const (
	LabelEssential Label = "essential"
	LabelOptional  Label = "optional"
	LabelExpensive Label = "expensive"
	LabelUnused    Label = "unused"
	LabelOrphaned  Label = "orphaned"
	LabelPublic    Label = "public"
	LabelStale     Label = "stale"
	LabelUnlabeled Label = "unlabeled"
)

// LabelSet is an ordered label collection. Order follows rule
// evaluation order, so equal inputs always produce equal sets.
type LabelSet []Label

// Has reports whether the set contains l.
func (s LabelSet) Has(l Label) bool {
	for _, have := range s {
		if have == l {
			return true
		}
	}
	return false
}

// Equal reports whether two label sets are identical in content and order.
func (s LabelSet) Equal(other LabelSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Strings returns the labels as plain strings for serialization.
func (s LabelSet) Strings() []string {
	out := make([]string, len(s))
	for i, l := range s {
		out[i] = string(l)
	}
	return out
}
