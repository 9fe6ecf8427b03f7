package subscription

import (
	"time"

	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
)

const (
	NearLimitPercent = 80.0
	OverLimitPercent = 100.0
)

// ResourceStatus is the derived usage state of one resource.
type ResourceStatus struct {
	Kind        vo.ResourceKind `json:"kind"`
	Used        float64         `json:"used"`
	Ceiling     vo.Ceiling      `json:"ceiling"`
	PercentUsed float64         `json:"percent_used"`
	NearLimit   bool            `json:"near_limit"`
	OverLimit   bool            `json:"over_limit"`
}

func newResourceStatus(kind vo.ResourceKind, used float64, ceiling vo.Ceiling) ResourceStatus {
	rs := ResourceStatus{Kind: kind, Used: used, Ceiling: ceiling}
	if ceiling.IsUnlimited() {
		return rs
	}
	rs.PercentUsed = ceiling.PercentUsed(used)
	rs.NearLimit = rs.PercentUsed >= NearLimitPercent
	rs.OverLimit = rs.PercentUsed >= OverLimitPercent
	return rs
}

// StatusSnapshot combines plan ceilings, subscription state and usage at one
// point in time. It is immutable once built.
type StatusSnapshot struct {
	CompanyID         uint                  `json:"company_id"`
	SubscriptionID    uint                  `json:"subscription_id"`
	PlanID            uint                  `json:"plan_id"`
	PlanSlug          string                `json:"plan_slug"`
	PlanName          string                `json:"plan_name"`
	Status            vo.SubscriptionStatus `json:"status"`
	TrialEnd          *time.Time            `json:"trial_end,omitempty"`
	NextDueDate       *time.Time            `json:"next_due_date,omitempty"`
	CancelAtPeriodEnd bool                  `json:"cancel_at_period_end"`
	Limits            PlanLimits            `json:"limits"`
	Usage             UsageSnapshot         `json:"usage"`
	Users             ResourceStatus        `json:"users"`
	Leads             ResourceStatus        `json:"leads"`
	Storage           ResourceStatus        `json:"storage"`
	ComputedAt        time.Time             `json:"computed_at"`
}

// BuildStatusSnapshot derives a snapshot from its three sources.
func BuildStatusSnapshot(sub *Subscription, plan *Plan, usage *UsageSnapshot, now time.Time) *StatusSnapshot {
	limits := plan.Limits()
	return &StatusSnapshot{
		CompanyID:         sub.CompanyID(),
		SubscriptionID:    sub.ID(),
		PlanID:            plan.ID(),
		PlanSlug:          plan.Slug(),
		PlanName:          plan.Name(),
		Status:            sub.Status(),
		TrialEnd:          sub.TrialEnd(),
		NextDueDate:       sub.NextDueDate(),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd(),
		Limits:            limits,
		Usage:             *usage,
		Users:             newResourceStatus(vo.ResourceUser, usage.Used(vo.ResourceUser), limits.MaxUsers),
		Leads:             newResourceStatus(vo.ResourceLead, usage.Used(vo.ResourceLead), limits.MaxLeads),
		Storage:           newResourceStatus(vo.ResourceStorage, usage.Used(vo.ResourceStorage), limits.MaxStorageGB),
		ComputedAt:        now,
	}
}

func (s *StatusSnapshot) Resource(kind vo.ResourceKind) ResourceStatus {
	switch kind {
	case vo.ResourceUser:
		return s.Users
	case vo.ResourceLead:
		return s.Leads
	default:
		return s.Storage
	}
}

// Allows is the gate decision for creating one more unit of kind.
func (s *StatusSnapshot) Allows(kind vo.ResourceKind) bool {
	rs := s.Resource(kind)
	return rs.Ceiling.Allows(rs.Used)
}

func (s *StatusSnapshot) NearAnyLimit() bool {
	return s.Users.NearLimit || s.Leads.NearLimit || s.Storage.NearLimit
}
