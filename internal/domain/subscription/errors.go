package subscription

import (
	"errors"
	"fmt"
)

var (
	// ErrSubscriptionNotFound means the tenant has no subscription row. It is a
	// configuration error and never implies unlimited usage.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrDataUnavailable means the store could not be read. Callers must not
	// read it as zero usage.
	ErrDataUnavailable = errors.New("subscription data unavailable")

	ErrPlanNotFound             = errors.New("plan not found")
	ErrPlanInactive             = errors.New("plan inactive")
	ErrPlanSlugExists           = errors.New("plan slug already exists")
	ErrPlanInUse                = errors.New("plan is referenced by subscriptions")
	ErrConcurrentUpdate         = errors.New("subscription was modified concurrently")
	ErrInvalidStatusTransition  = errors.New("invalid status transition")
	ErrTransitionNotDue         = errors.New("status transition is not due yet")
	ErrActiveSubscriptionExists = errors.New("company already has a non-cancelled subscription")
	ErrDowngradeExceedsUsage    = errors.New("current usage exceeds the target plan limits")
	ErrCancellationScheduled    = errors.New("subscription is scheduled to cancel at period end")
)

func errInvalidTransition(from, to fmt.Stringer) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
