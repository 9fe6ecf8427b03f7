package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// lapsedRepository answers the candidate queries the way the store does:
// only rows whose date is strictly before now qualify.
func lapsedRepository(subs ...*subscription.Subscription) *mockSubscriptionRepository {
	return &mockSubscriptionRepository{
		FindLapsedTrialsFunc: func(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
			var out []*subscription.Subscription
			for _, s := range subs {
				if s.TrialLapsed(now) {
					out = append(out, s)
				}
			}
			return out, nil
		},
		FindLapsedPaymentsFunc: func(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
			var out []*subscription.Subscription
			for _, s := range subs {
				if s.PaymentLapsed(now) {
					out = append(out, s)
				}
			}
			return out, nil
		},
	}
}

func TestReconcile_TransitionsLapsedRows(t *testing.T) {
	now := testNow
	trial := newTestSubscription(t, 1, 11, 100, vo.StatusTrial, ptrTime(now.Add(-time.Second)), nil)
	active := newTestSubscription(t, 2, 12, 100, vo.StatusActive, nil, ptrTime(now.Add(-time.Second)))
	futureTrial := newTestSubscription(t, 3, 13, 100, vo.StatusTrial, ptrTime(now.Add(time.Hour)), nil)
	futureActive := newTestSubscription(t, 4, 14, 100, vo.StatusActive, nil, ptrTime(now.Add(time.Hour)))
	overdue := newTestSubscription(t, 5, 15, 100, vo.StatusOverdue, nil, ptrTime(now.AddDate(0, 0, -10)))

	repo := lapsedRepository(trial, active, futureTrial, futureActive, overdue)
	invalidator := &mockInvalidator{}
	listener := &mockTransitionListener{}
	uc := NewReconcileSubscriptionsUseCase(repo, invalidator, clock.NewManual(now), logger.NewNopLogger())
	uc.SetTransitionListener(listener)

	result, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.Skipped)
	assert.False(t, result.Incomplete())

	assert.Equal(t, vo.StatusExpired, trial.Status())
	assert.Equal(t, vo.StatusOverdue, active.Status())
	assert.Equal(t, vo.StatusTrial, futureTrial.Status())
	assert.Equal(t, vo.StatusActive, futureActive.Status())
	assert.Equal(t, vo.StatusOverdue, overdue.Status())

	assert.ElementsMatch(t, []uint{11, 12}, invalidator.invalidated())
	require.Len(t, listener.transitions, 2)
	assert.Equal(t, Transition{CompanyID: 11, SubscriptionID: 1, From: vo.StatusTrial, To: vo.StatusExpired, At: now}, listener.transitions[0])
	assert.Equal(t, Transition{CompanyID: 12, SubscriptionID: 2, From: vo.StatusActive, To: vo.StatusOverdue, At: now}, listener.transitions[1])
}

func TestReconcile_PartialFailureContinues(t *testing.T) {
	a := newTestSubscription(t, 1, 21, 100, vo.StatusTrial, ptrTime(testNow.Add(-time.Minute)), nil)
	b := newTestSubscription(t, 2, 22, 100, vo.StatusTrial, ptrTime(testNow.Add(-time.Minute)), nil)

	repo := lapsedRepository(a, b)
	repo.UpdateFunc = func(ctx context.Context, sub *subscription.Subscription) error {
		if sub.ID() == a.ID() {
			return subscription.ErrConcurrentUpdate
		}
		return nil
	}
	invalidator := &mockInvalidator{}
	uc := NewReconcileSubscriptionsUseCase(repo, invalidator, clock.NewManual(testNow), logger.NewNopLogger())

	result, err := uc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []uint{22}, invalidator.invalidated())
	assert.Equal(t, vo.StatusExpired, b.Status())
}

func TestReconcile_CandidateQueryFailureIsAnError(t *testing.T) {
	repo := &mockSubscriptionRepository{
		FindLapsedPaymentsFunc: func(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
			return nil, errors.New("database is locked")
		},
	}
	uc := NewReconcileSubscriptionsUseCase(repo, &mockInvalidator{}, clock.NewManual(testNow), logger.NewNopLogger())

	result, err := uc.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "lapsed payments")
	assert.Equal(t, int32(0), repo.updateCalls.Load())
}

func TestReconcile_OverlappingRunIsRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	repo := &mockSubscriptionRepository{
		FindLapsedTrialsFunc: func(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
			close(entered)
			<-release
			return nil, nil
		},
	}
	uc := NewReconcileSubscriptionsUseCase(repo, &mockInvalidator{}, clock.NewManual(testNow), logger.NewNopLogger())

	done := make(chan error, 1)
	go func() {
		_, err := uc.Run(context.Background())
		done <- err
	}()
	<-entered

	_, err := uc.Run(context.Background())
	assert.ErrorIs(t, err, ErrReconcileInProgress)

	n, err := uc.Execute(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	close(release)
	require.NoError(t, <-done)

	_, err = uc.Run(context.Background())
	assert.NoError(t, err)
}

func TestReconcile_ExpiredTrialLeavesNoCachedSnapshot(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	clk := clock.NewManual(now)
	sub := newTestSubscription(t, 1, 31, 100, vo.StatusTrial, ptrTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), nil)
	plan := newTestPlan(t, 100, finiteLimits(5, 100, 10))

	cache := newMemoryStatusCache(5*time.Minute, clk)
	cache.Set(31, subscription.BuildStatusSnapshot(sub, plan, subscription.NewUsageSnapshot(1, 1, 0), now), cache.Generation(31))
	require.True(t, cache.has(31))

	uc := NewReconcileSubscriptionsUseCase(lapsedRepository(sub), cache, clk, logger.NewNopLogger())

	n, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, vo.StatusExpired, sub.Status())
	assert.False(t, cache.has(31))
}

func TestReconcile_StopsWhenContextCancelled(t *testing.T) {
	a := newTestSubscription(t, 1, 41, 100, vo.StatusTrial, ptrTime(testNow.Add(-time.Minute)), nil)
	b := newTestSubscription(t, 2, 42, 100, vo.StatusTrial, ptrTime(testNow.Add(-time.Minute)), nil)

	ctx, cancel := context.WithCancel(context.Background())
	repo := lapsedRepository(a, b)
	repo.UpdateFunc = func(_ context.Context, sub *subscription.Subscription) error {
		cancel()
		return nil
	}
	uc := NewReconcileSubscriptionsUseCase(repo, &mockInvalidator{}, clock.NewManual(testNow), logger.NewNopLogger())

	result, err := uc.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, result.Scanned, result.Succeeded+result.Failed+result.Skipped)
	assert.True(t, result.Incomplete())
	assert.Equal(t, vo.StatusTrial, b.Status())
}
