package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
)

// PlanModel is the persistence shape of a catalog plan. A NULL ceiling column
// means unlimited.
type PlanModel struct {
	ID           uint            `gorm:"primarykey"`
	Slug         string          `gorm:"uniqueIndex;not null;size:50"`
	Name         string          `gorm:"not null;size:100"`
	Description  string          `gorm:"size:500"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BillingCycle string          `gorm:"not null;size:20"`
	TrialDays    int             `gorm:"not null;default:0"`
	MaxUsers     *int64
	MaxLeads     *int64
	MaxStorageGB *int64 `gorm:"column:max_storage_gb"`
	Features     datatypes.JSON
	IsActive     bool `gorm:"not null;default:true"`
	IsPublic     bool `gorm:"not null;default:true"`
	SortOrder    int  `gorm:"not null;default:0"`
	Version      int  `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PlanModel) TableName() string {
	return constants.TablePlans
}
