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

type CreatePlanCommand struct {
	Name         string
	Slug         string
	Description  string
	Price        decimal.Decimal
	BillingCycle string
	TrialDays    int
	Limits       subscription.PlanLimits
	Features     []string
	IsPublic     bool
	SortOrder    int
}

type CreatePlanUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewCreatePlanUseCase(planRepo subscription.PlanRepository, logger logger.Interface) *CreatePlanUseCase {
	return &CreatePlanUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *CreatePlanUseCase) Execute(ctx context.Context, cmd CreatePlanCommand) (*dto.PlanDTO, error) {
	cycle, err := vo.ParseBillingCycle(cmd.BillingCycle)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid billing cycle", err.Error())
	}

	existing, err := uc.planRepo.GetBySlug(ctx, cmd.Slug)
	if err != nil {
		uc.logger.Errorw("failed to check plan slug", "error", err, "slug", cmd.Slug)
		return nil, fmt.Errorf("failed to check plan slug: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("plan slug already exists", cmd.Slug)
	}

	plan, err := subscription.NewPlan(cmd.Name, cmd.Slug, cmd.Price, cycle, cmd.TrialDays, cmd.Limits)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := plan.UpdateDetails(cmd.Name, cmd.Description, cmd.Features); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	plan.SetVisibility(true, cmd.IsPublic)
	plan.SetSortOrder(cmd.SortOrder)

	if err := uc.planRepo.Create(ctx, plan); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("plan slug already exists", cmd.Slug)
		}
		uc.logger.Errorw("failed to create plan", "error", err, "slug", cmd.Slug)
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	uc.logger.Infow("plan created", "plan_id", plan.ID(), "slug", plan.Slug())
	return dto.ToPlanDTO(plan), nil
}
