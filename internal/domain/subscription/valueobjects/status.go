package valueobjects

import "fmt"

// SubscriptionStatus is the lifecycle state of a tenant subscription.
type SubscriptionStatus string

const (
	StatusTrial     SubscriptionStatus = "trial"
	StatusActive    SubscriptionStatus = "active"
	StatusOverdue   SubscriptionStatus = "overdue"
	StatusExpired   SubscriptionStatus = "expired"
	StatusCancelled SubscriptionStatus = "cancelled"
)

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusTrial:     true,
	StatusActive:    true,
	StatusOverdue:   true,
	StatusExpired:   true,
	StatusCancelled: true,
}

var statusTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	StatusTrial:     {StatusActive, StatusExpired, StatusCancelled},
	StatusActive:    {StatusActive, StatusOverdue, StatusCancelled},
	StatusOverdue:   {StatusActive, StatusExpired, StatusCancelled},
	StatusExpired:   {StatusActive, StatusCancelled},
	StatusCancelled: {},
}

func ParseStatus(s string) (SubscriptionStatus, error) {
	st := SubscriptionStatus(s)
	if !ValidStatuses[st] {
		return "", fmt.Errorf("invalid subscription status: %s", s)
	}
	return st, nil
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanUseService reports whether the tenant may keep working with the product.
// Overdue tenants keep access until the gateway gives up on the charge.
func (s SubscriptionStatus) CanUseService() bool {
	return s == StatusTrial || s == StatusActive || s == StatusOverdue
}

func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusCancelled
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
