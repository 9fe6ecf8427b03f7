package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

func newChangePlanFixture(t *testing.T, target *subscription.Plan, usage *subscription.UsageSnapshot) (*ChangePlanUseCase, *subscription.Subscription, *mockSubscriptionRepository, *mockInvalidator) {
	t.Helper()
	sub := newTestSubscription(t, 1, testCompanyID, 100, vo.StatusActive, nil, ptrTime(testNow.AddDate(0, 1, 0)))
	subs := &mockSubscriptionRepository{
		GetCurrentByCompanyIDFunc: func(ctx context.Context, companyID uint) (*subscription.Subscription, error) {
			return sub, nil
		},
	}
	plans := &mockPlanRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*subscription.Plan, error) {
			if target != nil && id == target.ID() {
				return target, nil
			}
			return nil, nil
		},
	}
	agg := &mockUsageAggregator{
		AggregateFunc: func(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error) {
			return usage, nil
		},
	}
	inv := &mockInvalidator{}
	uc := NewChangePlanUseCase(subs, plans, agg, inv, clock.NewManual(testNow), logger.NewNopLogger())
	return uc, sub, subs, inv
}

func TestChangePlan_Upgrade(t *testing.T) {
	target := newTestPlan(t, 200, finiteLimits(20, 1000, 50))
	uc, sub, subs, inv := newChangePlanFixture(t, target, subscription.NewUsageSnapshot(4, 99, 0))

	result, err := uc.Execute(context.Background(), ChangePlanCommand{CompanyID: testCompanyID, PlanID: 200})

	require.NoError(t, err)
	assert.Equal(t, uint(200), result.PlanID)
	assert.Equal(t, uint(200), sub.PlanID())
	assert.Equal(t, int32(1), subs.updateCalls.Load())
	assert.Equal(t, []uint{testCompanyID}, inv.invalidated())
}

func TestChangePlan_DowngradeBelowUsageRefused(t *testing.T) {
	target := newTestPlan(t, 200, finiteLimits(5, 50, 10))
	uc, sub, subs, inv := newChangePlanFixture(t, target, subscription.NewUsageSnapshot(2, 51, 0))

	_, err := uc.Execute(context.Background(), ChangePlanCommand{CompanyID: testCompanyID, PlanID: 200})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Contains(t, apperrors.GetAppError(err).Details, "lead")
	assert.Equal(t, uint(100), sub.PlanID())
	assert.Equal(t, int32(0), subs.updateCalls.Load())
	assert.Empty(t, inv.invalidated())
}

func TestChangePlan_DowngradeToExactUsageAllowed(t *testing.T) {
	target := newTestPlan(t, 200, finiteLimits(5, 50, 10))
	uc, _, _, _ := newChangePlanFixture(t, target, subscription.NewUsageSnapshot(5, 50, 0))

	_, err := uc.Execute(context.Background(), ChangePlanCommand{CompanyID: testCompanyID, PlanID: 200})

	assert.NoError(t, err)
}

func TestChangePlan_UnknownPlan(t *testing.T) {
	uc, _, _, _ := newChangePlanFixture(t, nil, subscription.NewUsageSnapshot(0, 0, 0))

	_, err := uc.Execute(context.Background(), ChangePlanCommand{CompanyID: testCompanyID, PlanID: 999})

	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestChangePlan_ConcurrentUpdateIsConflict(t *testing.T) {
	target := newTestPlan(t, 200, finiteLimits(20, 1000, 50))
	uc, _, subs, inv := newChangePlanFixture(t, target, subscription.NewUsageSnapshot(0, 0, 0))
	subs.UpdateFunc = func(ctx context.Context, sub *subscription.Subscription) error {
		return subscription.ErrConcurrentUpdate
	}

	_, err := uc.Execute(context.Background(), ChangePlanCommand{CompanyID: testCompanyID, PlanID: 200})

	assert.True(t, apperrors.IsConflictError(err))
	assert.Empty(t, inv.invalidated())
}

func TestCancelSubscription(t *testing.T) {
	tests := []struct {
		name       string
		immediate  bool
		wantStatus vo.SubscriptionStatus
		wantAtEnd  bool
	}{
		{name: "at period end keeps the subscription active", immediate: false, wantStatus: vo.StatusActive, wantAtEnd: true},
		{name: "immediate cancels now", immediate: true, wantStatus: vo.StatusCancelled, wantAtEnd: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := newTestSubscription(t, 1, testCompanyID, 100, vo.StatusActive, nil, ptrTime(testNow.AddDate(0, 1, 0)))
			subs := &mockSubscriptionRepository{
				GetCurrentByCompanyIDFunc: func(ctx context.Context, companyID uint) (*subscription.Subscription, error) {
					return sub, nil
				},
			}
			inv := &mockInvalidator{}
			uc := NewCancelSubscriptionUseCase(subs, inv, clock.NewManual(testNow), logger.NewNopLogger())

			result, err := uc.Execute(context.Background(), CancelSubscriptionCommand{
				CompanyID: testCompanyID,
				Reason:    "too expensive",
				Immediate: tt.immediate,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus.String(), result.Status)
			assert.Equal(t, tt.wantAtEnd, result.CancelAtPeriodEnd)
			assert.Equal(t, "too expensive", result.CancelReason)
			assert.Equal(t, []uint{testCompanyID}, inv.invalidated())
		})
	}
}

func TestCancelSubscription_AlreadyCancelled(t *testing.T) {
	sub := newTestSubscription(t, 1, testCompanyID, 100, vo.StatusCancelled, nil, nil)
	subs := &mockSubscriptionRepository{
		GetCurrentByCompanyIDFunc: func(ctx context.Context, companyID uint) (*subscription.Subscription, error) {
			return sub, nil
		},
	}
	uc := NewCancelSubscriptionUseCase(subs, &mockInvalidator{}, clock.NewManual(testNow), logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), CancelSubscriptionCommand{CompanyID: testCompanyID, Immediate: true})

	assert.True(t, apperrors.IsConflictError(err))
}
