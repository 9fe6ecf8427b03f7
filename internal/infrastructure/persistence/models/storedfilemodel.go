package models

import (
	"time"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
)

// StoredFileModel records an uploaded object. SizeBytes summed per company is
// the tenant's storage usage.
type StoredFileModel struct {
	ID          uint   `gorm:"primarykey"`
	CompanyID   uint   `gorm:"not null;index:idx_file_company"`
	UploadedBy  uint   `gorm:"not null"`
	LeadID      *uint  `gorm:"index:idx_file_lead"`
	Name        string `gorm:"not null;size:255"`
	StorageKey  string `gorm:"uniqueIndex;not null;size:255"`
	ContentType string `gorm:"size:100"`
	SizeBytes   int64  `gorm:"not null"`
	CreatedAt   time.Time
}

func (StoredFileModel) TableName() string {
	return constants.TableStoredFiles
}
