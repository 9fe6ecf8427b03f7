package usecases

import (
	"context"
	"fmt"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type DeletePlanUseCase struct {
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewDeletePlanUseCase(
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *DeletePlanUseCase {
	return &DeletePlanUseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute refuses to delete a plan that any subscription still references.
func (uc *DeletePlanUseCase) Execute(ctx context.Context, planID uint) error {
	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_id", planID)
		return fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return apperrors.NewNotFoundError("plan not found")
	}

	count, err := uc.subscriptionRepo.CountByPlanID(ctx, planID)
	if err != nil {
		uc.logger.Errorw("failed to count plan subscriptions", "error", err, "plan_id", planID)
		return fmt.Errorf("failed to count plan subscriptions: %w", err)
	}
	if count > 0 {
		return apperrors.NewConflictError(subscription.ErrPlanInUse.Error(),
			fmt.Sprintf("%d subscriptions reference this plan", count))
	}

	if err := uc.planRepo.Delete(ctx, planID); err != nil {
		uc.logger.Errorw("failed to delete plan", "error", err, "plan_id", planID)
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	uc.logger.Infow("plan deleted", "plan_id", planID, "slug", plan.Slug())
	return nil
}
