package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

func newPaymentFixture(t *testing.T, sub *subscription.Subscription) (*ProcessPaymentEventUseCase, *mockSubscriptionRepository, *mockInvalidator) {
	t.Helper()
	plan := newTestPlan(t, 100, finiteLimits(5, 100, 10))
	subs := &mockSubscriptionRepository{
		GetByGatewaySubscriptionIDFunc: func(ctx context.Context, gatewayID string) (*subscription.Subscription, error) {
			if gatewayID == sub.GatewaySubscriptionID() {
				return sub, nil
			}
			return nil, nil
		},
		GetCurrentByCompanyIDFunc: func(ctx context.Context, companyID uint) (*subscription.Subscription, error) {
			if companyID == sub.CompanyID() {
				return sub, nil
			}
			return nil, nil
		},
	}
	plans := &mockPlanRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*subscription.Plan, error) {
			return plan, nil
		},
	}
	inv := &mockInvalidator{}
	uc := NewProcessPaymentEventUseCase(subs, plans, inv, clock.NewManual(testNow), logger.NewNopLogger())
	return uc, subs, inv
}

func TestProcessPaymentEvent_ConfirmedActivatesTrial(t *testing.T) {
	sub := newTestSubscription(t, 1, testCompanyID, 100, vo.StatusTrial, ptrTime(testNow.AddDate(0, 0, 3)), nil)
	uc, _, inv := newPaymentFixture(t, sub)

	result, err := uc.Execute(context.Background(), PaymentEventCommand{
		Event:                 EventPaymentConfirmed,
		GatewayCustomerID:     "cus_1",
		GatewaySubscriptionID: "sub_1",
		ExternalReference:     "7",
	})

	require.NoError(t, err)
	assert.True(t, result.Handled)
	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Nil(t, sub.TrialEnd())
	require.NotNil(t, sub.NextDueDate())
	assert.Equal(t, testNow.AddDate(0, 1, 0), *sub.NextDueDate())
	assert.Equal(t, "sub_1", sub.GatewaySubscriptionID())
	assert.Equal(t, []uint{testCompanyID}, inv.invalidated())
}

func TestProcessPaymentEvent_EarlyRenewalExtendsFromCurrentDueDate(t *testing.T) {
	due := testNow.AddDate(0, 0, 5)
	sub := newTestSubscription(t, 1, testCompanyID, 100, vo.StatusActive, nil, ptrTime(due))
	sub.LinkGateway("cus_1", "sub_1")
	uc, _, _ := newPaymentFixture(t, sub)

	_, err := uc.Execute(context.Background(), PaymentEventCommand{Event: EventPaymentReceived, GatewaySubscriptionID: "sub_1"})

	require.NoError(t, err)
	assert.Equal(t, due.AddDate(0, 1, 0), *sub.NextDueDate())
}

func TestProcessPaymentEvent_OverdueAndDeleted(t *testing.T) {
	tests := []struct {
		event      string
		wantStatus vo.SubscriptionStatus
	}{
		{event: EventPaymentOverdue, wantStatus: vo.StatusOverdue},
		{event: EventSubscriptionDeleted, wantStatus: vo.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			sub := newTestSubscription(t, 1, testCompanyID, 100, vo.StatusActive, nil, ptrTime(testNow.Add(time.Hour)))
			sub.LinkGateway("cus_1", "sub_1")
			uc, _, inv := newPaymentFixture(t, sub)

			result, err := uc.Execute(context.Background(), PaymentEventCommand{Event: tt.event, GatewaySubscriptionID: "sub_1"})

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus.String(), result.Status)
			assert.Equal(t, []uint{testCompanyID}, inv.invalidated())
		})
	}
}

func TestProcessPaymentEvent_UnknownEventIgnored(t *testing.T) {
	sub := newTestSubscription(t, 1, testCompanyID, 100, vo.StatusActive, nil, ptrTime(testNow.Add(time.Hour)))
	uc, subs, inv := newPaymentFixture(t, sub)

	result, err := uc.Execute(context.Background(), PaymentEventCommand{Event: "PAYMENT_CREATED", ExternalReference: "7"})

	require.NoError(t, err)
	assert.False(t, result.Handled)
	assert.Equal(t, int32(0), subs.updateCalls.Load())
	assert.Empty(t, inv.invalidated())
}

func TestProcessPaymentEvent_UnknownSubscription(t *testing.T) {
	sub := newTestSubscription(t, 1, testCompanyID, 100, vo.StatusActive, nil, ptrTime(testNow.Add(time.Hour)))
	uc, _, _ := newPaymentFixture(t, sub)

	_, err := uc.Execute(context.Background(), PaymentEventCommand{Event: EventPaymentConfirmed, ExternalReference: "999"})
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = uc.Execute(context.Background(), PaymentEventCommand{Event: EventPaymentConfirmed, ExternalReference: "abc"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestProcessPaymentEvent_PaymentDoesNotRenewScheduledCancellation(t *testing.T) {
	due := testNow.AddDate(0, 0, 5)
	sub := newTestSubscription(t, 1, testCompanyID, 100, vo.StatusActive, nil, ptrTime(due))
	require.NoError(t, sub.Cancel("leaving", true, testNow))
	uc, subs, inv := newPaymentFixture(t, sub)

	result, err := uc.Execute(context.Background(), PaymentEventCommand{
		Event:             EventPaymentReceived,
		ExternalReference: "7",
	})

	require.NoError(t, err)
	assert.True(t, result.Handled)
	assert.Equal(t, vo.StatusActive.String(), result.Status)
	assert.True(t, sub.CancelAtPeriodEnd())
	assert.Equal(t, due, *sub.NextDueDate(), "due date is not pushed forward")
	assert.Equal(t, int32(0), subs.updateCalls.Load())
	assert.Empty(t, inv.invalidated())
}
