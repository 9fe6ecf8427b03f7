package valueobjects

import "fmt"

// ResourceKind names a billable resource guarded by plan ceilings.
type ResourceKind string

const (
	ResourceUser    ResourceKind = "user"
	ResourceLead    ResourceKind = "lead"
	ResourceStorage ResourceKind = "storage"
)

var ResourceKinds = []ResourceKind{ResourceUser, ResourceLead, ResourceStorage}

func ParseResourceKind(s string) (ResourceKind, error) {
	for _, k := range ResourceKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind: %s", s)
}

func (k ResourceKind) String() string {
	return string(k)
}
