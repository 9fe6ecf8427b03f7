package usecases

import (
	"context"
	"time"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
)

// StatusCache holds one StatusSnapshot per tenant. Every Invalidate bumps the
// tenant's generation so a recompute that started earlier cannot be stored.
type StatusCache interface {
	// Get returns a snapshot only if it is within its TTL and not invalidated.
	Get(companyID uint) (*subscription.StatusSnapshot, bool)
	Generation(companyID uint) uint64
	// Set stores snap unless the generation moved past gen and reports
	// whether it was stored.
	Set(companyID uint, snap *subscription.StatusSnapshot, gen uint64) bool
	Invalidate(companyID uint)
}

// StatusInvalidator is called by every flow that changes a tenant's
// subscription, plan limits or usage.
type StatusInvalidator interface {
	InvalidateStatus(ctx context.Context, companyID uint)
}

// Transition is one status change applied by the reconciliation sweep.
type Transition struct {
	CompanyID      uint
	SubscriptionID uint
	From           vo.SubscriptionStatus
	To             vo.SubscriptionStatus
	At             time.Time
}

type TransitionListener interface {
	OnStatusTransition(ctx context.Context, t Transition)
}

// StatusResolver is satisfied by ResolveStatusUseCase.
type StatusResolver interface {
	Execute(ctx context.Context, companyID uint) (*subscription.StatusSnapshot, error)
}

// LimitChecker is satisfied by CheckLimitUseCase.
type LimitChecker interface {
	Execute(ctx context.Context, companyID uint, kind vo.ResourceKind) (*Decision, error)
}
