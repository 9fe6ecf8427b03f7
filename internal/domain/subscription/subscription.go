package subscription

import (
	"fmt"
	"time"

	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
)

// Subscription is a tenant's enrollment in a plan. Rows are never deleted.
type Subscription struct {
	id                    uint
	companyID             uint
	planID                uint
	status                vo.SubscriptionStatus
	trialEnd              *time.Time
	nextDueDate           *time.Time
	cancelAtPeriodEnd     bool
	cancelledAt           *time.Time
	cancelReason          string
	gatewayCustomerID     string
	gatewaySubscriptionID string
	version               int
	createdAt             time.Time
	updatedAt             time.Time
}

// NewTrialSubscription starts a tenant on planID in TRIAL until trialEnd.
func NewTrialSubscription(companyID, planID uint, trialEnd, now time.Time) (*Subscription, error) {
	if companyID == 0 {
		return nil, fmt.Errorf("company ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !trialEnd.After(now) {
		return nil, fmt.Errorf("trial end must be in the future")
	}

	end := trialEnd.UTC()
	return &Subscription{
		companyID: companyID,
		planID:    planID,
		status:    vo.StatusTrial,
		trialEnd:  &end,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type SubscriptionReconstructParams struct {
	ID                    uint
	CompanyID             uint
	PlanID                uint
	Status                vo.SubscriptionStatus
	TrialEnd              *time.Time
	NextDueDate           *time.Time
	CancelAtPeriodEnd     bool
	CancelledAt           *time.Time
	CancelReason          string
	GatewayCustomerID     string
	GatewaySubscriptionID string
	Version               int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func ReconstructSubscriptionWithParams(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.CompanyID == 0 {
		return nil, fmt.Errorf("company ID is required")
	}
	if p.PlanID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	return &Subscription{
		id:                    p.ID,
		companyID:             p.CompanyID,
		planID:                p.PlanID,
		status:                p.Status,
		trialEnd:              p.TrialEnd,
		nextDueDate:           p.NextDueDate,
		cancelAtPeriodEnd:     p.CancelAtPeriodEnd,
		cancelledAt:           p.CancelledAt,
		cancelReason:          p.CancelReason,
		gatewayCustomerID:     p.GatewayCustomerID,
		gatewaySubscriptionID: p.GatewaySubscriptionID,
		version:               p.Version,
		createdAt:             p.CreatedAt,
		updatedAt:             p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                      { return s.id }
func (s *Subscription) CompanyID() uint               { return s.companyID }
func (s *Subscription) PlanID() uint                  { return s.planID }
func (s *Subscription) Status() vo.SubscriptionStatus { return s.status }
func (s *Subscription) TrialEnd() *time.Time          { return s.trialEnd }
func (s *Subscription) NextDueDate() *time.Time       { return s.nextDueDate }
func (s *Subscription) CancelAtPeriodEnd() bool       { return s.cancelAtPeriodEnd }
func (s *Subscription) CancelledAt() *time.Time       { return s.cancelledAt }
func (s *Subscription) CancelReason() string          { return s.cancelReason }
func (s *Subscription) GatewayCustomerID() string     { return s.gatewayCustomerID }
func (s *Subscription) GatewaySubscriptionID() string { return s.gatewaySubscriptionID }
func (s *Subscription) Version() int                  { return s.version }
func (s *Subscription) CreatedAt() time.Time          { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time          { return s.updatedAt }

func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IncrementVersion is called by the repository after a successful optimistic update.
func (s *Subscription) IncrementVersion() {
	s.version++
}

// TrialLapsed reports whether a TRIAL subscription's trial_end is strictly before now.
func (s *Subscription) TrialLapsed(now time.Time) bool {
	return s.status == vo.StatusTrial && s.trialEnd != nil && s.trialEnd.Before(now)
}

// PaymentLapsed reports whether an ACTIVE subscription's next_due_date is
// strictly before now. A subscription set to cancel at period end never
// lapses into OVERDUE; its period end is handled by CompleteScheduledCancel.
func (s *Subscription) PaymentLapsed(now time.Time) bool {
	return s.status == vo.StatusActive && !s.cancelAtPeriodEnd &&
		s.nextDueDate != nil && s.nextDueDate.Before(now)
}

// PeriodEnded reports whether a subscription flagged to cancel at period end
// has reached its due date.
func (s *Subscription) PeriodEnded(now time.Time) bool {
	if !s.cancelAtPeriodEnd || s.nextDueDate == nil || !s.nextDueDate.Before(now) {
		return false
	}
	return s.status == vo.StatusActive || s.status == vo.StatusOverdue
}

// ExpireTrial moves a lapsed TRIAL to EXPIRED.
func (s *Subscription) ExpireTrial(now time.Time) error {
	if s.status != vo.StatusTrial {
		return errInvalidTransition(s.status, vo.StatusExpired)
	}
	if !s.TrialLapsed(now) {
		return ErrTransitionNotDue
	}
	s.status = vo.StatusExpired
	s.updatedAt = now
	return nil
}

// MarkOverdue moves an ACTIVE subscription whose due date passed to OVERDUE.
func (s *Subscription) MarkOverdue(now time.Time) error {
	if s.status != vo.StatusActive {
		return errInvalidTransition(s.status, vo.StatusOverdue)
	}
	if !s.PaymentLapsed(now) {
		return ErrTransitionNotDue
	}
	s.status = vo.StatusOverdue
	s.updatedAt = now
	return nil
}

// FlagOverdue applies a gateway overdue notice regardless of the stored due date.
func (s *Subscription) FlagOverdue(now time.Time) error {
	if s.status == vo.StatusOverdue {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusOverdue) {
		return errInvalidTransition(s.status, vo.StatusOverdue)
	}
	s.status = vo.StatusOverdue
	s.updatedAt = now
	return nil
}

// Activate records a confirmed payment: the subscription becomes ACTIVE until nextDue.
// A subscription set to cancel at period end is not renewed.
func (s *Subscription) Activate(nextDue, now time.Time) error {
	if s.cancelAtPeriodEnd {
		return ErrCancellationScheduled
	}
	if !s.status.CanTransitionTo(vo.StatusActive) {
		return errInvalidTransition(s.status, vo.StatusActive)
	}
	if !nextDue.After(now) {
		return fmt.Errorf("next due date must be in the future")
	}
	due := nextDue.UTC()
	s.status = vo.StatusActive
	s.nextDueDate = &due
	s.trialEnd = nil
	s.updatedAt = now
	return nil
}

// Cancel ends the subscription now, or flags it to end with the current period
// when atPeriodEnd is set and a period is running.
func (s *Subscription) Cancel(reason string, atPeriodEnd bool, now time.Time) error {
	if s.status.IsTerminal() {
		return errInvalidTransition(s.status, vo.StatusCancelled)
	}
	s.cancelReason = reason
	s.updatedAt = now
	if atPeriodEnd && s.status == vo.StatusActive {
		s.cancelAtPeriodEnd = true
		return nil
	}
	s.status = vo.StatusCancelled
	s.cancelAtPeriodEnd = false
	s.cancelledAt = &now
	return nil
}

// CompleteScheduledCancel ends a subscription whose cancel-at-period-end
// flag is set once its period is over.
func (s *Subscription) CompleteScheduledCancel(now time.Time) error {
	if !s.cancelAtPeriodEnd {
		return errInvalidTransition(s.status, vo.StatusCancelled)
	}
	if !s.PeriodEnded(now) {
		return ErrTransitionNotDue
	}
	s.status = vo.StatusCancelled
	s.cancelAtPeriodEnd = false
	s.cancelledAt = &now
	s.updatedAt = now
	return nil
}

// ChangePlan switches the plan in place, keeping one row per tenant.
func (s *Subscription) ChangePlan(planID uint, now time.Time) error {
	if planID == 0 {
		return fmt.Errorf("plan ID is required")
	}
	if s.status.IsTerminal() {
		return errInvalidTransition(s.status, s.status)
	}
	s.planID = planID
	s.updatedAt = now
	return nil
}

func (s *Subscription) LinkGateway(customerID, subscriptionID string) {
	s.gatewayCustomerID = customerID
	s.gatewaySubscriptionID = subscriptionID
}
