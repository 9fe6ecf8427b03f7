package usecases

import (
	"context"
	"fmt"

	subscriptionUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/lead"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// DeleteLeadUseCase soft-deletes a lead, freeing one unit of the lead ceiling.
type DeleteLeadUseCase struct {
	leadRepo    lead.Repository
	invalidator subscriptionUsecases.StatusInvalidator
	logger      logger.Interface
}

func NewDeleteLeadUseCase(leadRepo lead.Repository, invalidator subscriptionUsecases.StatusInvalidator, logger logger.Interface) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{
		leadRepo:    leadRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (uc *DeleteLeadUseCase) Execute(ctx context.Context, companyID, leadID uint) error {
	l, err := uc.leadRepo.GetByID(ctx, companyID, leadID)
	if err != nil {
		uc.logger.Errorw("failed to get lead", "error", err, "lead_id", leadID)
		return fmt.Errorf("failed to get lead: %w", err)
	}
	if l == nil {
		return apperrors.NewNotFoundError("lead not found")
	}

	if err := uc.leadRepo.SoftDelete(ctx, companyID, leadID); err != nil {
		uc.logger.Errorw("failed to delete lead", "error", err, "lead_id", leadID)
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	uc.invalidator.InvalidateStatus(ctx, companyID)
	uc.logger.Infow("lead deleted", "lead_id", leadID, "company_id", companyID)
	return nil
}
