package usecases

import (
	"context"
	"fmt"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(subscriptionRepo subscription.SubscriptionRepository, logger logger.Interface) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute returns the stored subscription row, bypassing the snapshot cache.
func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, companyID uint) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetCurrentByCompanyID(ctx, companyID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "company_id", companyID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewPreconditionFailedError("company has no subscription")
	}
	return dto.ToSubscriptionDTO(sub), nil
}
