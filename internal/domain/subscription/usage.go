package subscription

import vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"

const bytesPerGB = 1024 * 1024 * 1024

// UsageSnapshot is the tenant's current consumption, always recomputed from
// the operational tables.
type UsageSnapshot struct {
	UsersCount       int64   `json:"users_count"`
	LeadsCount       int64   `json:"leads_count"`
	StorageUsedBytes int64   `json:"storage_used_bytes"`
	StorageUsedGB    float64 `json:"storage_used_gb"`
}

func NewUsageSnapshot(users, leads, storageBytes int64) *UsageSnapshot {
	return &UsageSnapshot{
		UsersCount:       max(users, 0),
		LeadsCount:       max(leads, 0),
		StorageUsedBytes: max(storageBytes, 0),
		StorageUsedGB:    float64(max(storageBytes, 0)) / bytesPerGB,
	}
}

// Used returns the consumption of kind in the unit its ceiling is expressed in.
func (u *UsageSnapshot) Used(kind vo.ResourceKind) float64 {
	switch kind {
	case vo.ResourceUser:
		return float64(u.UsersCount)
	case vo.ResourceLead:
		return float64(u.LeadsCount)
	case vo.ResourceStorage:
		return u.StorageUsedGB
	default:
		return 0
	}
}
