package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
)

// SubscriptionModel is the persistence shape of a tenant subscription. Rows are
// never deleted; a cancelled subscription stays with status cancelled.
type SubscriptionModel struct {
	ID                    uint       `gorm:"primarykey"`
	CompanyID             uint       `gorm:"not null;index:idx_subscription_company"`
	PlanID                uint       `gorm:"not null;index:idx_subscription_plan"`
	Status                string     `gorm:"not null;size:20;index:idx_subscription_status"`
	TrialEnd              *time.Time `gorm:"index:idx_subscription_trial_end"`
	NextDueDate           *time.Time `gorm:"index:idx_subscription_next_due"`
	CancelAtPeriodEnd     bool       `gorm:"not null;default:false"`
	CancelledAt           *time.Time
	CancelReason          string `gorm:"size:500"`
	GatewayCustomerID     string `gorm:"size:100"`
	GatewaySubscriptionID string `gorm:"size:100;index:idx_subscription_gateway"`
	Version               int    `gorm:"not null;default:1"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
