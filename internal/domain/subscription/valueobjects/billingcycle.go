package valueobjects

import (
	"fmt"
	"strings"
	"time"
)

type BillingCycle string

const (
	BillingCycleMonthly    BillingCycle = "monthly"
	BillingCycleQuarterly  BillingCycle = "quarterly"
	BillingCycleSemiAnnual BillingCycle = "semi_annual"
	BillingCycleYearly     BillingCycle = "yearly"
)

var ValidBillingCycles = map[BillingCycle]bool{
	BillingCycleMonthly:    true,
	BillingCycleQuarterly:  true,
	BillingCycleSemiAnnual: true,
	BillingCycleYearly:     true,
}

func ParseBillingCycle(value string) (BillingCycle, error) {
	cycle := BillingCycle(strings.ToLower(strings.TrimSpace(value)))
	if cycle == "" {
		return "", fmt.Errorf("billing cycle cannot be empty")
	}
	if !ValidBillingCycles[cycle] {
		return "", fmt.Errorf("invalid billing cycle: %s", value)
	}
	return cycle, nil
}

func (b BillingCycle) String() string {
	return string(b)
}

func (b BillingCycle) IsValid() bool {
	return ValidBillingCycles[b]
}

// NextDueDate advances from by one billing period.
func (b BillingCycle) NextDueDate(from time.Time) time.Time {
	switch b {
	case BillingCycleQuarterly:
		return from.AddDate(0, 3, 0)
	case BillingCycleSemiAnnual:
		return from.AddDate(0, 6, 0)
	case BillingCycleYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}
