package subscription

import (
	"context"
	"time"
)

type PlanFilter struct {
	OnlyActive bool
	OnlyPublic bool
}

type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	// GetByID returns nil, nil when the plan does not exist.
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySlug(ctx context.Context, slug string) (*Plan, error)
	Update(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter PlanFilter) ([]*Plan, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	// GetCurrentByCompanyID returns the tenant's non-cancelled subscription, or
	// its latest cancelled one, or nil, nil.
	GetCurrentByCompanyID(ctx context.Context, companyID uint) (*Subscription, error)
	GetByGatewaySubscriptionID(ctx context.Context, gatewayID string) (*Subscription, error)
	// Update persists sub if its version is unchanged in the store and returns
	// ErrConcurrentUpdate otherwise.
	Update(ctx context.Context, sub *Subscription) error
	ExistsActiveForCompany(ctx context.Context, companyID uint) (bool, error)
	FindLapsedTrials(ctx context.Context, now time.Time) ([]*Subscription, error)
	FindLapsedPayments(ctx context.Context, now time.Time) ([]*Subscription, error)
	// FindEndedPeriods returns rows set to cancel at period end whose due
	// date has passed.
	FindEndedPeriods(ctx context.Context, now time.Time) ([]*Subscription, error)
	ListCompanyIDsByPlanID(ctx context.Context, planID uint) ([]uint, error)
	CountByPlanID(ctx context.Context, planID uint) (int64, error)
}

// UsageAggregator computes current consumption for a tenant. A store failure
// is returned as an error and never as zero usage.
type UsageAggregator interface {
	Aggregate(ctx context.Context, companyID uint) (*UsageSnapshot, error)
}
