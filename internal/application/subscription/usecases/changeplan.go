package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type ChangePlanCommand struct {
	CompanyID uint
	PlanID    uint
}

type ChangePlanUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	usage            subscription.UsageAggregator
	invalidator      StatusInvalidator
	clock            clock.Clock
	logger           logger.Interface
}

func NewChangePlanUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	usage subscription.UsageAggregator,
	invalidator StatusInvalidator,
	clk clock.Clock,
	logger logger.Interface,
) *ChangePlanUseCase {
	return &ChangePlanUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		usage:            usage,
		invalidator:      invalidator,
		clock:            clk,
		logger:           logger,
	}
}

// Execute switches the tenant's plan in place. A downgrade whose ceilings are
// already exceeded by current usage is refused.
func (uc *ChangePlanUseCase) Execute(ctx context.Context, cmd ChangePlanCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetCurrentByCompanyID(ctx, cmd.CompanyID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "company_id", cmd.CompanyID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewPreconditionFailedError("company has no subscription")
	}
	if sub.PlanID() == cmd.PlanID {
		return dto.ToSubscriptionDTO(sub), nil
	}

	plan, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_id", cmd.PlanID)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}
	if !plan.IsActive() {
		return nil, apperrors.NewValidationError(subscription.ErrPlanInactive.Error())
	}

	usage, err := uc.usage.Aggregate(ctx, cmd.CompanyID)
	if err != nil {
		uc.logger.Errorw("failed to aggregate usage", "error", err, "company_id", cmd.CompanyID)
		return nil, MapStatusError(fmt.Errorf("%w: %w", subscription.ErrDataUnavailable, err))
	}
	if kind := plan.Accommodates(usage); kind != "" {
		return nil, apperrors.NewConflictError(subscription.ErrDowngradeExceedsUsage.Error(),
			fmt.Sprintf("%s usage %.2f exceeds ceiling %s", kind, usage.Used(kind), plan.Limits().For(kind)))
	}

	if err := sub.ChangePlan(plan.ID(), uc.clock.Now()); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		if errors.Is(err, subscription.ErrConcurrentUpdate) {
			return nil, apperrors.NewConflictError("subscription was modified concurrently, retry")
		}
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", sub.ID())
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.invalidator.InvalidateStatus(ctx, cmd.CompanyID)

	uc.logger.Infow("subscription plan changed",
		"subscription_id", sub.ID(),
		"company_id", cmd.CompanyID,
		"plan_id", plan.ID(),
	)
	return dto.ToSubscriptionDTO(sub), nil
}
