package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// UpdatePlanCommand carries partial changes; nil fields are left as they are.
type UpdatePlanCommand struct {
	PlanID       uint
	Name         *string
	Description  *string
	Features     []string
	Price        *decimal.Decimal
	BillingCycle *string
	Limits       *subscription.PlanLimits
	IsActive     *bool
	IsPublic     *bool
	SortOrder    *int
}

type UpdatePlanUseCase struct {
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	invalidator      StatusInvalidator
	logger           logger.Interface
}

func NewUpdatePlanUseCase(
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	invalidator StatusInvalidator,
	logger logger.Interface,
) *UpdatePlanUseCase {
	return &UpdatePlanUseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		invalidator:      invalidator,
		logger:           logger,
	}
}

// Execute applies the changes. When the ceilings change every subscriber's
// snapshot is invalidated so the new limits apply before the TTL runs out.
func (uc *UpdatePlanUseCase) Execute(ctx context.Context, cmd UpdatePlanCommand) (*dto.PlanDTO, error) {
	plan, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_id", cmd.PlanID)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}

	if cmd.Name != nil || cmd.Description != nil || cmd.Features != nil {
		name, description, features := plan.Name(), plan.Description(), plan.Features()
		if cmd.Name != nil {
			name = *cmd.Name
		}
		if cmd.Description != nil {
			description = *cmd.Description
		}
		if cmd.Features != nil {
			features = cmd.Features
		}
		if err := plan.UpdateDetails(name, description, features); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if cmd.Price != nil || cmd.BillingCycle != nil {
		price, cycle := plan.Price(), plan.BillingCycle()
		if cmd.Price != nil {
			price = *cmd.Price
		}
		if cmd.BillingCycle != nil {
			parsed, err := vo.ParseBillingCycle(*cmd.BillingCycle)
			if err != nil {
				return nil, apperrors.NewValidationError("invalid billing cycle", err.Error())
			}
			cycle = parsed
		}
		if err := plan.UpdatePricing(price, cycle); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	limitsChanged := false
	if cmd.Limits != nil && !limitsEqual(plan.Limits(), *cmd.Limits) {
		plan.UpdateLimits(*cmd.Limits)
		limitsChanged = true
	}

	if cmd.IsActive != nil || cmd.IsPublic != nil {
		active, public := plan.IsActive(), plan.IsPublic()
		if cmd.IsActive != nil {
			active = *cmd.IsActive
		}
		if cmd.IsPublic != nil {
			public = *cmd.IsPublic
		}
		plan.SetVisibility(active, public)
	}
	if cmd.SortOrder != nil {
		plan.SetSortOrder(*cmd.SortOrder)
	}

	if err := uc.planRepo.Update(ctx, plan); err != nil {
		uc.logger.Errorw("failed to update plan", "error", err, "plan_id", cmd.PlanID)
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	if limitsChanged {
		uc.invalidateSubscribers(ctx, plan.ID())
	}

	uc.logger.Infow("plan updated", "plan_id", plan.ID(), "limits_changed", limitsChanged)
	return dto.ToPlanDTO(plan), nil
}

func (uc *UpdatePlanUseCase) invalidateSubscribers(ctx context.Context, planID uint) {
	companyIDs, err := uc.subscriptionRepo.ListCompanyIDsByPlanID(ctx, planID)
	if err != nil {
		// Snapshots still expire with their TTL.
		uc.logger.Warnw("failed to list plan subscribers for invalidation", "error", err, "plan_id", planID)
		return
	}
	for _, id := range companyIDs {
		uc.invalidator.InvalidateStatus(ctx, id)
	}
	uc.logger.Infow("invalidated subscriber snapshots after limit change",
		"plan_id", planID,
		"count", len(companyIDs),
	)
}

func limitsEqual(a, b subscription.PlanLimits) bool {
	return a.MaxUsers.Equals(b.MaxUsers) &&
		a.MaxLeads.Equals(b.MaxLeads) &&
		a.MaxStorageGB.Equals(b.MaxStorageGB)
}
