package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/storedfile"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/mappers"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/db"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type StoredFileRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewStoredFileRepository(db *gorm.DB, logger logger.Interface) storedfile.Repository {
	return &StoredFileRepositoryImpl{db: db, logger: logger}
}

func (r *StoredFileRepositoryImpl) Create(ctx context.Context, f *storedfile.StoredFile) error {
	model := mappers.StoredFileToModel(f)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create stored file", "company_id", model.CompanyID, "key", model.StorageKey, "error", err)
		return fmt.Errorf("failed to create stored file: %w", err)
	}
	if err := f.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set stored file ID: %w", err)
	}
	return nil
}

func (r *StoredFileRepositoryImpl) GetByID(ctx context.Context, companyID, id uint) (*storedfile.StoredFile, error) {
	var model models.StoredFileModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get stored file", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get stored file: %w", err)
	}
	return mappers.StoredFileToEntity(&model), nil
}

func (r *StoredFileRepositoryImpl) ListByCompany(ctx context.Context, companyID uint) ([]*storedfile.StoredFile, error) {
	var fileModels []*models.StoredFileModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("company_id = ?", companyID).
		Order("created_at DESC, id DESC").
		Find(&fileModels).Error
	if err != nil {
		r.logger.Errorw("failed to list stored files", "company_id", companyID, "error", err)
		return nil, fmt.Errorf("failed to list stored files: %w", err)
	}

	files := make([]*storedfile.StoredFile, 0, len(fileModels))
	for _, m := range fileModels {
		files = append(files, mappers.StoredFileToEntity(m))
	}
	return files, nil
}

func (r *StoredFileRepositoryImpl) Delete(ctx context.Context, companyID, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&models.StoredFileModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete stored file", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete stored file: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("stored file not found")
	}
	return nil
}
