package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
)

type PlanDTO struct {
	ID           uint                    `json:"id"`
	Name         string                  `json:"name"`
	Slug         string                  `json:"slug"`
	Description  string                  `json:"description"`
	Price        decimal.Decimal         `json:"price"`
	BillingCycle string                  `json:"billing_cycle"`
	TrialDays    int                     `json:"trial_days"`
	Limits       subscription.PlanLimits `json:"limits"`
	Features     []string                `json:"features"`
	IsActive     bool                    `json:"is_active"`
	IsPublic     bool                    `json:"is_public"`
	SortOrder    int                     `json:"sort_order"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

type SubscriptionDTO struct {
	ID                uint       `json:"id"`
	CompanyID         uint       `json:"company_id"`
	PlanID            uint       `json:"plan_id"`
	Status            string     `json:"status"`
	TrialEnd          *time.Time `json:"trial_end,omitempty"`
	NextDueDate       *time.Time `json:"next_due_date,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	CancelReason      string     `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ReconcileResultDTO is printed by the reconcile command.
type ReconcileResultDTO struct {
	Scanned   int `json:"scanned"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// ReconcileReportDTO covers both passes of the reconcile command.
type ReconcileReportDTO struct {
	Lapsed    ReconcileResultDTO `json:"lapsed"`
	PeriodEnd ReconcileResultDTO `json:"period_end"`
}
