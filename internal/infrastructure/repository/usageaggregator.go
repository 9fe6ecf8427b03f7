package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/db"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// UsageAggregatorImpl counts a tenant's consumption straight from the tables
// that hold it. Nothing is cached here.
type UsageAggregatorImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUsageAggregator(db *gorm.DB, logger logger.Interface) subscription.UsageAggregator {
	return &UsageAggregatorImpl{db: db, logger: logger}
}

func (a *UsageAggregatorImpl) Aggregate(ctx context.Context, companyID uint) (*subscription.UsageSnapshot, error) {
	tx := db.GetTxFromContext(ctx, a.db)

	var users int64
	if err := tx.Model(&models.UserModel{}).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Count(&users).Error; err != nil {
		return nil, a.unavailable("users", companyID, err)
	}

	// Soft-deleted rows are excluded by the model's DeletedAt scope.
	var leads int64
	if err := tx.Model(&models.LeadModel{}).
		Where("company_id = ?", companyID).
		Count(&leads).Error; err != nil {
		return nil, a.unavailable("leads", companyID, err)
	}

	var storageBytes int64
	if err := tx.Model(&models.StoredFileModel{}).
		Select("COALESCE(SUM(size_bytes), 0)").
		Where("company_id = ?", companyID).
		Scan(&storageBytes).Error; err != nil {
		return nil, a.unavailable("storage", companyID, err)
	}

	return subscription.NewUsageSnapshot(users, leads, storageBytes), nil
}

func (a *UsageAggregatorImpl) unavailable(resource string, companyID uint, err error) error {
	a.logger.Errorw("failed to aggregate usage", "resource", resource, "company_id", companyID, "error", err)
	return fmt.Errorf("%w: failed to count %s: %w", subscription.ErrDataUnavailable, resource, err)
}
