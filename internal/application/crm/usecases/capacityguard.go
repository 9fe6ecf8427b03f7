package usecases

import (
	"context"
	"errors"
	"fmt"

	subscriptionUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/lock"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// CapacityGuard runs a resource-creating operation only when the tenant's
// plan allows one more unit of that resource.
//
// The limit check and the insert run under a per-tenant lock and the cached
// status is invalidated before the lock is released, so two requests in this
// process cannot both pass a check for the last free unit. Requests on other
// instances are not serialized.
type CapacityGuard struct {
	checker     subscriptionUsecases.LimitChecker
	invalidator subscriptionUsecases.StatusInvalidator
	locks       *lock.KeyedMutex[uint]
	logger      logger.Interface
}

func NewCapacityGuard(
	checker subscriptionUsecases.LimitChecker,
	invalidator subscriptionUsecases.StatusInvalidator,
	logger logger.Interface,
) *CapacityGuard {
	return &CapacityGuard{
		checker:     checker,
		invalidator: invalidator,
		locks:       lock.NewKeyedMutex[uint](),
		logger:      logger,
	}
}

// Run calls create if kind is under its ceiling. A denial is returned as a
// limit_reached AppError and an unresolvable status as 412 or 503.
func (g *CapacityGuard) Run(ctx context.Context, companyID uint, kind vo.ResourceKind, create func(ctx context.Context) error) error {
	unlock := g.locks.Lock(companyID)
	defer unlock()

	decision, err := g.checker.Execute(ctx, companyID, kind)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return subscriptionUsecases.MapStatusError(err)
	}
	if !decision.Allowed {
		return LimitReachedError(decision)
	}

	if err := create(ctx); err != nil {
		return err
	}

	g.invalidator.InvalidateStatus(ctx, companyID)
	return nil
}

// LimitReachedError describes a denied decision to the client.
func LimitReachedError(d *subscriptionUsecases.Decision) error {
	return apperrors.NewLimitReachedError(
		fmt.Sprintf("plan limit reached for %s", d.Kind),
		fmt.Sprintf("used %s of %s", formatUsed(d.Used), d.Ceiling),
	)
}

func formatUsed(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
