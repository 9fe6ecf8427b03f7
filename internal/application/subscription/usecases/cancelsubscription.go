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

type CancelSubscriptionCommand struct {
	CompanyID uint
	Reason    string
	// Immediate cancels now; otherwise an ACTIVE subscription runs until its
	// current period ends.
	Immediate bool
}

type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	invalidator      StatusInvalidator
	clock            clock.Clock
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	invalidator StatusInvalidator,
	clk clock.Clock,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		invalidator:      invalidator,
		clock:            clk,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	sub, err := uc.subscriptionRepo.GetCurrentByCompanyID(ctx, cmd.CompanyID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "company_id", cmd.CompanyID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewPreconditionFailedError("company has no subscription")
	}

	if err := sub.Cancel(cmd.Reason, !cmd.Immediate, uc.clock.Now()); err != nil {
		return nil, apperrors.NewConflictError("subscription cannot be cancelled", err.Error())
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		if errors.Is(err, subscription.ErrConcurrentUpdate) {
			return nil, apperrors.NewConflictError("subscription was modified concurrently, retry")
		}
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", sub.ID())
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.invalidator.InvalidateStatus(ctx, cmd.CompanyID)

	uc.logger.Infow("subscription cancelled",
		"subscription_id", sub.ID(),
		"company_id", cmd.CompanyID,
		"reason", cmd.Reason,
		"immediate", cmd.Immediate,
		"status", sub.Status(),
	)
	return dto.ToSubscriptionDTO(sub), nil
}
