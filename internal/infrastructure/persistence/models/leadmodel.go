package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
)

// LeadModel is a prospect on the sales board. Soft-deleted rows do not count
// against the lead ceiling.
type LeadModel struct {
	ID             uint            `gorm:"primarykey"`
	CompanyID      uint            `gorm:"not null;index:idx_lead_company_stage,priority:1"`
	OwnerID        *uint           `gorm:"index:idx_lead_owner"`
	Name           string          `gorm:"not null;size:120"`
	Email          string          `gorm:"size:160"`
	Phone          string          `gorm:"size:20"`
	ConsortiumType string          `gorm:"not null;size:20"`
	CreditValue    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Stage          string          `gorm:"not null;size:30;index:idx_lead_company_stage,priority:2"`
	Source         string          `gorm:"not null;size:20"`
	Notes          string          `gorm:"type:text"`
	LostReason     string          `gorm:"size:500"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (LeadModel) TableName() string {
	return constants.TableLeads
}
