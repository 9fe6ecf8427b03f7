// Package lead models prospects moving through a tenant's sales pipeline.
// Non-deleted leads count against the plan's lead ceiling.
package lead

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Lead struct {
	id             uint
	companyID      uint
	ownerID        *uint
	name           string
	email          string
	phone          string
	consortiumType ConsortiumType
	creditValue    decimal.Decimal
	stage          Stage
	source         Source
	notes          string
	lostReason     string
	deletedAt      *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

type NewLeadParams struct {
	CompanyID      uint
	OwnerID        *uint
	Name           string
	Email          string
	Phone          string
	ConsortiumType ConsortiumType
	CreditValue    decimal.Decimal
	Source         Source
	Notes          string
}

// NewLead places a prospect in the first column of the board.
func NewLead(p NewLeadParams) (*Lead, error) {
	if p.CompanyID == 0 {
		return nil, fmt.Errorf("company ID is required")
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("lead name is required")
	}
	if strings.TrimSpace(p.Email) == "" && strings.TrimSpace(p.Phone) == "" {
		return nil, fmt.Errorf("lead needs an email or a phone")
	}
	if p.CreditValue.IsNegative() {
		return nil, fmt.Errorf("credit value cannot be negative")
	}
	ct := p.ConsortiumType
	if ct == "" {
		ct = ConsortiumOther
	}
	if !ValidConsortiumTypes[ct] {
		return nil, fmt.Errorf("invalid consortium type: %s", ct)
	}
	src := p.Source
	if src == "" {
		src = SourceManual
	}
	now := time.Now().UTC()
	return &Lead{
		companyID:      p.CompanyID,
		ownerID:        p.OwnerID,
		name:           name,
		email:          strings.ToLower(strings.TrimSpace(p.Email)),
		phone:          strings.TrimSpace(p.Phone),
		consortiumType: ct,
		creditValue:    p.CreditValue,
		stage:          StageNewContact,
		source:         src,
		notes:          p.Notes,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

type ReconstructParams struct {
	ID             uint
	CompanyID      uint
	OwnerID        *uint
	Name           string
	Email          string
	Phone          string
	ConsortiumType ConsortiumType
	CreditValue    decimal.Decimal
	Stage          Stage
	Source         Source
	Notes          string
	LostReason     string
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func Reconstruct(p ReconstructParams) *Lead {
	return &Lead{
		id:             p.ID,
		companyID:      p.CompanyID,
		ownerID:        p.OwnerID,
		name:           p.Name,
		email:          p.Email,
		phone:          p.Phone,
		consortiumType: p.ConsortiumType,
		creditValue:    p.CreditValue,
		stage:          p.Stage,
		source:         p.Source,
		notes:          p.Notes,
		lostReason:     p.LostReason,
		deletedAt:      p.DeletedAt,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}
}

func (l *Lead) ID() uint                       { return l.id }
func (l *Lead) CompanyID() uint                { return l.companyID }
func (l *Lead) OwnerID() *uint                 { return l.ownerID }
func (l *Lead) Name() string                   { return l.name }
func (l *Lead) Email() string                  { return l.email }
func (l *Lead) Phone() string                  { return l.phone }
func (l *Lead) ConsortiumType() ConsortiumType { return l.consortiumType }
func (l *Lead) CreditValue() decimal.Decimal   { return l.creditValue }
func (l *Lead) Stage() Stage                   { return l.stage }
func (l *Lead) Source() Source                 { return l.source }
func (l *Lead) Notes() string                  { return l.notes }
func (l *Lead) LostReason() string             { return l.lostReason }
func (l *Lead) DeletedAt() *time.Time          { return l.deletedAt }
func (l *Lead) CreatedAt() time.Time           { return l.createdAt }
func (l *Lead) UpdatedAt() time.Time           { return l.updatedAt }

func (l *Lead) SetID(id uint) error {
	if l.id != 0 {
		return fmt.Errorf("lead ID is already set")
	}
	l.id = id
	return nil
}

// MoveTo changes the Kanban column. Moving to lost requires a reason.
func (l *Lead) MoveTo(stage Stage, lostReason string) error {
	if l.deletedAt != nil {
		return fmt.Errorf("lead is deleted")
	}
	if stage == l.stage {
		return nil
	}
	if stage == StageLost && strings.TrimSpace(lostReason) == "" {
		return fmt.Errorf("a reason is required to mark a lead as lost")
	}
	l.stage = stage
	if stage == StageLost {
		l.lostReason = strings.TrimSpace(lostReason)
	} else {
		l.lostReason = ""
	}
	l.updatedAt = time.Now().UTC()
	return nil
}

func (l *Lead) AssignTo(ownerID uint) {
	l.ownerID = &ownerID
	l.updatedAt = time.Now().UTC()
}

type ListFilter struct {
	CompanyID uint
	Stage     Stage
	OwnerID   *uint
	Search    string
	Offset    int
	Limit     int
}

// StageCount is one column header of the board.
type StageCount struct {
	Stage Stage `json:"stage"`
	Count int64 `json:"count"`
}

type Repository interface {
	Create(ctx context.Context, l *Lead) error
	// GetByID returns nil, nil when the lead is missing or belongs to another company.
	GetByID(ctx context.Context, companyID, id uint) (*Lead, error)
	Update(ctx context.Context, l *Lead) error
	SoftDelete(ctx context.Context, companyID, id uint) error
	List(ctx context.Context, filter ListFilter) ([]*Lead, int64, error)
	CountByStage(ctx context.Context, companyID uint) ([]StageCount, error)
}
