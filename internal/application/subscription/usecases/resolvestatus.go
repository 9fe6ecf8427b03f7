package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

const defaultComputeTimeout = 10 * time.Second

// ResolveStatusUseCase produces the authoritative StatusSnapshot of a tenant,
// serving it from the cache when possible.
type ResolveStatusUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	usage            subscription.UsageAggregator
	cache            StatusCache
	clock            clock.Clock
	computeTimeout   time.Duration
	group            singleflight.Group
	logger           logger.Interface
}

func NewResolveStatusUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	usage subscription.UsageAggregator,
	cache StatusCache,
	clk clock.Clock,
	logger logger.Interface,
) *ResolveStatusUseCase {
	return &ResolveStatusUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		usage:            usage,
		cache:            cache,
		clock:            clk,
		computeTimeout:   defaultComputeTimeout,
		logger:           logger,
	}
}

// Execute returns ErrSubscriptionNotFound when the tenant has no subscription
// and ErrDataUnavailable when the store cannot be read.
//
// Concurrent misses for one tenant share a single recompute. If ctx ends
// first the caller gets ctx.Err() while the recompute still completes and
// fills the cache.
func (uc *ResolveStatusUseCase) Execute(ctx context.Context, companyID uint) (*subscription.StatusSnapshot, error) {
	if snap, ok := uc.cache.Get(companyID); ok {
		return snap, nil
	}

	gen := uc.cache.Generation(companyID)
	key := strconv.FormatUint(uint64(companyID), 10) + ":" + strconv.FormatUint(gen, 10)

	ch := uc.group.DoChan(key, func() (any, error) {
		computeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.computeTimeout)
		defer cancel()

		snap, err := uc.compute(computeCtx, companyID)
		if err != nil {
			return nil, err
		}
		if !uc.cache.Set(companyID, snap, gen) {
			uc.logger.Debugw("discarded snapshot computed before invalidation",
				"company_id", companyID,
				"generation", gen,
			)
		}
		return snap, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*subscription.StatusSnapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (uc *ResolveStatusUseCase) compute(ctx context.Context, companyID uint) (*subscription.StatusSnapshot, error) {
	sub, err := uc.subscriptionRepo.GetCurrentByCompanyID(ctx, companyID)
	if err != nil {
		uc.logger.Errorw("failed to load subscription", "error", err, "company_id", companyID)
		return nil, fmt.Errorf("%w: load subscription: %w", subscription.ErrDataUnavailable, err)
	}
	if sub == nil {
		return nil, subscription.ErrSubscriptionNotFound
	}

	plan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		uc.logger.Errorw("failed to load plan", "error", err, "company_id", companyID, "plan_id", sub.PlanID())
		return nil, fmt.Errorf("%w: load plan: %w", subscription.ErrDataUnavailable, err)
	}
	if plan == nil {
		uc.logger.Errorw("subscription references a missing plan", "company_id", companyID, "plan_id", sub.PlanID())
		return nil, fmt.Errorf("%w: plan %d", subscription.ErrPlanNotFound, sub.PlanID())
	}

	usage, err := uc.usage.Aggregate(ctx, companyID)
	if err != nil {
		uc.logger.Errorw("failed to aggregate usage", "error", err, "company_id", companyID)
		if errors.Is(err, subscription.ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: aggregate usage: %w", subscription.ErrDataUnavailable, err)
	}

	return subscription.BuildStatusSnapshot(sub, plan, usage, uc.clock.Now()), nil
}
