package models

import (
	"time"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
)

// UserModel is a team member. Active rows count against the user ceiling.
type UserModel struct {
	ID           uint   `gorm:"primarykey"`
	CompanyID    uint   `gorm:"not null;index:idx_user_company"`
	Name         string `gorm:"not null;size:120"`
	Email        string `gorm:"uniqueIndex;not null;size:160"`
	PasswordHash string `gorm:"not null;size:100"`
	Role         string `gorm:"not null;size:20"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
