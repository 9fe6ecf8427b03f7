package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// Gateway event names.
const (
	EventPaymentConfirmed    = "PAYMENT_CONFIRMED"
	EventPaymentReceived     = "PAYMENT_RECEIVED"
	EventPaymentOverdue      = "PAYMENT_OVERDUE"
	EventSubscriptionDeleted = "SUBSCRIPTION_DELETED"
)

type PaymentEventCommand struct {
	Event                 string
	PaymentID             string
	GatewayCustomerID     string
	GatewaySubscriptionID string
	// ExternalReference is the company ID sent to the gateway at checkout.
	ExternalReference string
}

type PaymentEventResult struct {
	Handled        bool   `json:"handled"`
	SubscriptionID uint   `json:"subscription_id,omitempty"`
	Status         string `json:"status,omitempty"`
}

// ProcessPaymentEventUseCase applies billing gateway notifications to the
// tenant's subscription.
type ProcessPaymentEventUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	invalidator      StatusInvalidator
	clock            clock.Clock
	logger           logger.Interface
}

func NewProcessPaymentEventUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	invalidator StatusInvalidator,
	clk clock.Clock,
	logger logger.Interface,
) *ProcessPaymentEventUseCase {
	return &ProcessPaymentEventUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		invalidator:      invalidator,
		clock:            clk,
		logger:           logger,
	}
}

// Execute ignores events it does not know so the gateway does not retry them.
func (uc *ProcessPaymentEventUseCase) Execute(ctx context.Context, cmd PaymentEventCommand) (*PaymentEventResult, error) {
	switch cmd.Event {
	case EventPaymentConfirmed, EventPaymentReceived, EventPaymentOverdue, EventSubscriptionDeleted:
	default:
		uc.logger.Debugw("ignoring payment event", "event", cmd.Event, "payment_id", cmd.PaymentID)
		return &PaymentEventResult{Handled: false}, nil
	}

	sub, err := uc.findSubscription(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		uc.logger.Warnw("payment event for unknown subscription",
			"event", cmd.Event,
			"gateway_subscription_id", cmd.GatewaySubscriptionID,
			"external_reference", cmd.ExternalReference,
		)
		return nil, apperrors.NewNotFoundError("subscription not found for payment event")
	}

	if sub.GatewaySubscriptionID() == "" && cmd.GatewaySubscriptionID != "" {
		sub.LinkGateway(cmd.GatewayCustomerID, cmd.GatewaySubscriptionID)
	}

	now := uc.clock.Now()
	switch cmd.Event {
	case EventPaymentConfirmed, EventPaymentReceived:
		plan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
		if err != nil {
			uc.logger.Errorw("failed to get plan", "error", err, "plan_id", sub.PlanID())
			return nil, fmt.Errorf("failed to get plan: %w", err)
		}
		if plan == nil {
			return nil, apperrors.NewInternalError("subscription references a missing plan")
		}
		base := now
		if due := sub.NextDueDate(); due != nil && due.After(now) {
			base = *due
		}
		err = sub.Activate(plan.BillingCycle().NextDueDate(base), now)
		if errors.Is(err, subscription.ErrCancellationScheduled) {
			uc.logger.Warnw("payment for subscription set to cancel at period end, not renewing",
				"event", cmd.Event,
				"payment_id", cmd.PaymentID,
				"subscription_id", sub.ID(),
				"company_id", sub.CompanyID(),
			)
			return &PaymentEventResult{Handled: true, SubscriptionID: sub.ID(), Status: sub.Status().String()}, nil
		}
		if err != nil {
			return nil, apperrors.NewConflictError("payment cannot activate subscription", err.Error())
		}
	case EventPaymentOverdue:
		if err := sub.FlagOverdue(now); err != nil {
			return nil, apperrors.NewConflictError("subscription cannot become overdue", err.Error())
		}
	case EventSubscriptionDeleted:
		if sub.Status().IsTerminal() {
			return &PaymentEventResult{Handled: true, SubscriptionID: sub.ID(), Status: sub.Status().String()}, nil
		}
		if err := sub.Cancel("cancelled at payment gateway", false, now); err != nil {
			return nil, apperrors.NewConflictError("subscription cannot be cancelled", err.Error())
		}
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		if errors.Is(err, subscription.ErrConcurrentUpdate) {
			return nil, apperrors.NewConflictError("subscription was modified concurrently, retry")
		}
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", sub.ID())
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.invalidator.InvalidateStatus(ctx, sub.CompanyID())

	uc.logger.Infow("payment event applied",
		"event", cmd.Event,
		"payment_id", cmd.PaymentID,
		"subscription_id", sub.ID(),
		"company_id", sub.CompanyID(),
		"status", sub.Status(),
	)
	return &PaymentEventResult{Handled: true, SubscriptionID: sub.ID(), Status: sub.Status().String()}, nil
}

func (uc *ProcessPaymentEventUseCase) findSubscription(ctx context.Context, cmd PaymentEventCommand) (*subscription.Subscription, error) {
	if cmd.GatewaySubscriptionID != "" {
		sub, err := uc.subscriptionRepo.GetByGatewaySubscriptionID(ctx, cmd.GatewaySubscriptionID)
		if err != nil {
			uc.logger.Errorw("failed to get subscription by gateway id", "error", err, "gateway_subscription_id", cmd.GatewaySubscriptionID)
			return nil, fmt.Errorf("failed to get subscription: %w", err)
		}
		if sub != nil {
			return sub, nil
		}
	}

	ref := strings.TrimSpace(cmd.ExternalReference)
	if ref == "" {
		return nil, nil
	}
	companyID, err := strconv.ParseUint(ref, 10, 64)
	if err != nil || companyID == 0 {
		return nil, apperrors.NewValidationError("invalid external reference", ref)
	}
	sub, err := uc.subscriptionRepo.GetCurrentByCompanyID(ctx, uint(companyID))
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "company_id", companyID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}
