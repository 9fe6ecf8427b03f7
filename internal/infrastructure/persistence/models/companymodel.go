package models

import (
	"time"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
)

type CompanyModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"not null;size:150"`
	Slug      string `gorm:"uniqueIndex;not null;size:80"`
	Email     string `gorm:"not null;size:160"`
	Phone     string `gorm:"size:20"`
	Document  string `gorm:"size:20"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CompanyModel) TableName() string {
	return constants.TableCompanies
}
