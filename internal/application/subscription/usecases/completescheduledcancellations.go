package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// ErrPeriodEndInProgress is returned when a period-end pass is requested
// while another one is still running in this process.
var ErrPeriodEndInProgress = errors.New("period-end cancellation already in progress")

// CompleteScheduledCancellationsUseCase cancels subscriptions that were set
// to cancel at period end once their due date has passed. It runs apart from
// the lapse sweep, which never touches these rows.
type CompleteScheduledCancellationsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	invalidator      StatusInvalidator
	clock            clock.Clock
	running          atomic.Bool
	logger           logger.Interface
}

func NewCompleteScheduledCancellationsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	invalidator StatusInvalidator,
	clk clock.Clock,
	logger logger.Interface,
) *CompleteScheduledCancellationsUseCase {
	return &CompleteScheduledCancellationsUseCase{
		subscriptionRepo: subscriptionRepo,
		invalidator:      invalidator,
		clock:            clk,
		logger:           logger,
	}
}

func (uc *CompleteScheduledCancellationsUseCase) Run(ctx context.Context) (*ReconcileResult, error) {
	if !uc.running.CompareAndSwap(false, true) {
		return nil, ErrPeriodEndInProgress
	}
	defer uc.running.Store(false)

	now := uc.clock.Now()
	ended, err := uc.subscriptionRepo.FindEndedPeriods(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to find ended periods", "error", err)
		return nil, fmt.Errorf("failed to find ended periods: %w", err)
	}

	result := &ReconcileResult{Scanned: len(ended)}
	for _, sub := range ended {
		if ctx.Err() != nil {
			break
		}

		from := sub.Status()
		if err := sub.CompleteScheduledCancel(now); err != nil {
			result.Failed++
			uc.logger.Warnw("subscription not eligible for period-end cancellation",
				"subscription_id", sub.ID(),
				"company_id", sub.CompanyID(),
				"error", err,
			)
			continue
		}
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			result.Failed++
			uc.logger.Warnw("failed to persist period-end cancellation",
				"subscription_id", sub.ID(),
				"company_id", sub.CompanyID(),
				"error", err,
			)
			continue
		}

		uc.invalidator.InvalidateStatus(ctx, sub.CompanyID())
		result.Succeeded++
		result.Transitions = append(result.Transitions, Transition{
			CompanyID:      sub.CompanyID(),
			SubscriptionID: sub.ID(),
			From:           from,
			To:             vo.StatusCancelled,
			At:             now,
		})
		uc.logger.Infow("subscription cancelled at period end",
			"subscription_id", sub.ID(),
			"company_id", sub.CompanyID(),
			"from", from,
		)
	}
	result.Skipped = result.Scanned - result.Succeeded - result.Failed

	if result.Scanned > 0 {
		uc.logger.Infow("period-end cancellations finished",
			"scanned", result.Scanned,
			"succeeded", result.Succeeded,
			"failed", result.Failed,
			"skipped", result.Skipped,
		)
	}
	return result, nil
}

// Execute adapts Run to the scheduler's batch job contract.
func (uc *CompleteScheduledCancellationsUseCase) Execute(ctx context.Context) (int, error) {
	result, err := uc.Run(ctx)
	if errors.Is(err, ErrPeriodEndInProgress) {
		uc.logger.Infow("skipping period-end cancellations, previous run still in progress")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return result.Succeeded, nil
}
