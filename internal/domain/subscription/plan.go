package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
)

// PlanLimits are the resource ceilings a plan grants.
type PlanLimits struct {
	MaxUsers     vo.Ceiling `json:"max_users"`
	MaxLeads     vo.Ceiling `json:"max_leads"`
	MaxStorageGB vo.Ceiling `json:"max_storage_gb"`
}

// For returns the ceiling guarding kind.
func (l PlanLimits) For(kind vo.ResourceKind) vo.Ceiling {
	switch kind {
	case vo.ResourceUser:
		return l.MaxUsers
	case vo.ResourceLead:
		return l.MaxLeads
	case vo.ResourceStorage:
		return l.MaxStorageGB
	default:
		return vo.MustLimit(0)
	}
}

// Plan is a priced tier of the catalog.
type Plan struct {
	id           uint
	slug         string
	name         string
	description  string
	price        decimal.Decimal
	billingCycle vo.BillingCycle
	trialDays    int
	limits       PlanLimits
	features     []string
	isActive     bool
	isPublic     bool
	sortOrder    int
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

func NewPlan(name, slug string, price decimal.Decimal, cycle vo.BillingCycle, trialDays int, limits PlanLimits) (*Plan, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("plan slug is required")
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("plan price cannot be negative")
	}
	if !cycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", cycle)
	}
	if trialDays < 0 {
		return nil, fmt.Errorf("trial days cannot be negative")
	}

	now := time.Now().UTC()
	return &Plan{
		slug:         slug,
		name:         name,
		price:        price,
		billingCycle: cycle,
		trialDays:    trialDays,
		limits:       limits,
		isActive:     true,
		isPublic:     true,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// PlanReconstructParams carries persisted plan state.
type PlanReconstructParams struct {
	ID           uint
	Slug         string
	Name         string
	Description  string
	Price        decimal.Decimal
	BillingCycle vo.BillingCycle
	TrialDays    int
	Limits       PlanLimits
	Features     []string
	IsActive     bool
	IsPublic     bool
	SortOrder    int
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ReconstructPlanWithParams(p PlanReconstructParams) (*Plan, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if !p.BillingCycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", p.BillingCycle)
	}
	return &Plan{
		id:           p.ID,
		slug:         p.Slug,
		name:         p.Name,
		description:  p.Description,
		price:        p.Price,
		billingCycle: p.BillingCycle,
		trialDays:    p.TrialDays,
		limits:       p.Limits,
		features:     p.Features,
		isActive:     p.IsActive,
		isPublic:     p.IsPublic,
		sortOrder:    p.SortOrder,
		version:      p.Version,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}, nil
}

func (p *Plan) ID() uint                      { return p.id }
func (p *Plan) Slug() string                  { return p.slug }
func (p *Plan) Name() string                  { return p.name }
func (p *Plan) Description() string           { return p.description }
func (p *Plan) Price() decimal.Decimal        { return p.price }
func (p *Plan) BillingCycle() vo.BillingCycle { return p.billingCycle }
func (p *Plan) TrialDays() int                { return p.trialDays }
func (p *Plan) Limits() PlanLimits            { return p.limits }
func (p *Plan) Features() []string            { return p.features }
func (p *Plan) IsActive() bool                { return p.isActive }
func (p *Plan) IsPublic() bool                { return p.isPublic }
func (p *Plan) SortOrder() int                { return p.sortOrder }
func (p *Plan) Version() int                  { return p.version }
func (p *Plan) CreatedAt() time.Time          { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time          { return p.updatedAt }

// SetID is called once by the repository after insert.
func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Plan) UpdateDetails(name, description string, features []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("plan name is required")
	}
	p.name = name
	p.description = description
	p.features = features
	p.touch()
	return nil
}

func (p *Plan) UpdatePricing(price decimal.Decimal, cycle vo.BillingCycle) error {
	if price.IsNegative() {
		return fmt.Errorf("plan price cannot be negative")
	}
	if !cycle.IsValid() {
		return fmt.Errorf("invalid billing cycle: %s", cycle)
	}
	p.price = price
	p.billingCycle = cycle
	p.touch()
	return nil
}

// UpdateLimits replaces the ceilings. Subscribers' cached snapshots must be
// invalidated by the caller.
func (p *Plan) UpdateLimits(limits PlanLimits) {
	p.limits = limits
	p.touch()
}

func (p *Plan) SetVisibility(active, public bool) {
	p.isActive = active
	p.isPublic = public
	p.touch()
}

func (p *Plan) SetSortOrder(order int) {
	p.sortOrder = order
	p.touch()
}

// Accommodates reports the first resource whose usage does not fit under the
// plan ceilings, or "" when everything fits.
func (p *Plan) Accommodates(usage *UsageSnapshot) vo.ResourceKind {
	for _, kind := range vo.ResourceKinds {
		if !p.limits.For(kind).Accommodates(usage.Used(kind)) {
			return kind
		}
	}
	return ""
}

func (p *Plan) touch() {
	p.updatedAt = time.Now().UTC()
	p.version++
}
