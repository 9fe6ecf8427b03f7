package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// ErrReconcileInProgress is returned when a sweep is requested while another
// one is still running in this process.
var ErrReconcileInProgress = errors.New("reconciliation already in progress")

// ReconcileResult accounts for every scanned row: Scanned is always
// Succeeded + Failed + Skipped. Skipped rows were left untouched because the
// sweep was interrupted.
type ReconcileResult struct {
	Scanned     int          `json:"scanned"`
	Succeeded   int          `json:"succeeded"`
	Failed      int          `json:"failed"`
	Skipped     int          `json:"skipped"`
	Transitions []Transition `json:"-"`
}

// Incomplete reports whether any scanned row was not transitioned.
func (r *ReconcileResult) Incomplete() bool {
	return r.Failed > 0 || r.Skipped > 0
}

// ReconcileSubscriptionsUseCase moves lapsed subscriptions forward: TRIAL past
// trial_end becomes EXPIRED and ACTIVE past next_due_date becomes OVERDUE.
// It makes no other transition.
type ReconcileSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	invalidator      StatusInvalidator
	listener         TransitionListener
	clock            clock.Clock
	running          atomic.Bool
	logger           logger.Interface
}

func NewReconcileSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	invalidator StatusInvalidator,
	clk clock.Clock,
	logger logger.Interface,
) *ReconcileSubscriptionsUseCase {
	return &ReconcileSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		invalidator:      invalidator,
		clock:            clk,
		logger:           logger,
	}
}

// SetTransitionListener registers a listener notified after each committed transition.
func (uc *ReconcileSubscriptionsUseCase) SetTransitionListener(l TransitionListener) {
	uc.listener = l
}

// Run performs one sweep. A row that fails to transition is logged and
// counted in Failed; rows not reached before ctx ends are counted in Skipped.
// Only a failing candidate query aborts the sweep.
func (uc *ReconcileSubscriptionsUseCase) Run(ctx context.Context) (*ReconcileResult, error) {
	if !uc.running.CompareAndSwap(false, true) {
		return nil, ErrReconcileInProgress
	}
	defer uc.running.Store(false)

	now := uc.clock.Now()

	trials, err := uc.subscriptionRepo.FindLapsedTrials(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to find lapsed trials", "error", err)
		return nil, fmt.Errorf("failed to find lapsed trials: %w", err)
	}
	payments, err := uc.subscriptionRepo.FindLapsedPayments(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to find lapsed payments", "error", err)
		return nil, fmt.Errorf("failed to find lapsed payments: %w", err)
	}

	result := &ReconcileResult{Scanned: len(trials) + len(payments)}
	if result.Scanned == 0 {
		return result, nil
	}

	uc.logger.Infow("found subscriptions to reconcile",
		"lapsed_trials", len(trials),
		"lapsed_payments", len(payments),
	)

	for _, sub := range trials {
		if ctx.Err() != nil {
			break
		}
		uc.apply(ctx, sub, vo.StatusExpired, now, result)
	}
	for _, sub := range payments {
		if ctx.Err() != nil {
			break
		}
		uc.apply(ctx, sub, vo.StatusOverdue, now, result)
	}

	result.Skipped = result.Scanned - result.Succeeded - result.Failed
	if err := ctx.Err(); err != nil {
		uc.logger.Warnw("reconciliation interrupted",
			"error", err,
			"succeeded", result.Succeeded,
			"failed", result.Failed,
			"skipped", result.Skipped,
		)
	}

	uc.logger.Infow("reconciliation finished",
		"scanned", result.Scanned,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)
	return result, nil
}

// Execute adapts Run to the scheduler's batch job contract. An overlapping
// run is skipped rather than reported as a failure.
func (uc *ReconcileSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	result, err := uc.Run(ctx)
	if errors.Is(err, ErrReconcileInProgress) {
		uc.logger.Infow("skipping reconciliation, previous run still in progress")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return result.Succeeded, nil
}

func (uc *ReconcileSubscriptionsUseCase) apply(
	ctx context.Context,
	sub *subscription.Subscription,
	to vo.SubscriptionStatus,
	now time.Time,
	result *ReconcileResult,
) {
	from := sub.Status()

	var err error
	switch to {
	case vo.StatusExpired:
		err = sub.ExpireTrial(now)
	case vo.StatusOverdue:
		err = sub.MarkOverdue(now)
	}
	if err != nil {
		result.Failed++
		uc.logger.Warnw("subscription not eligible for transition",
			"subscription_id", sub.ID(),
			"company_id", sub.CompanyID(),
			"current_status", from,
			"target_status", to,
			"error", err,
		)
		return
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		result.Failed++
		uc.logger.Warnw("failed to persist subscription transition",
			"subscription_id", sub.ID(),
			"company_id", sub.CompanyID(),
			"target_status", to,
			"error", err,
		)
		return
	}

	uc.invalidator.InvalidateStatus(ctx, sub.CompanyID())

	t := Transition{
		CompanyID:      sub.CompanyID(),
		SubscriptionID: sub.ID(),
		From:           from,
		To:             to,
		At:             now,
	}
	result.Succeeded++
	result.Transitions = append(result.Transitions, t)

	uc.logger.Infow("subscription transitioned",
		"subscription_id", sub.ID(),
		"company_id", sub.CompanyID(),
		"from", from,
		"to", to,
	)

	if uc.listener != nil {
		uc.listener.OnStatusTransition(ctx, t)
	}
}
