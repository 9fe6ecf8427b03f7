package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/company"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/mappers"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/db"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type CompanyRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCompanyRepository(db *gorm.DB, logger logger.Interface) company.Repository {
	return &CompanyRepositoryImpl{db: db, logger: logger}
}

func (r *CompanyRepositoryImpl) Create(ctx context.Context, c *company.Company) error {
	model := mappers.CompanyToModel(c)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create company", "slug", model.Slug, "error", err)
		return fmt.Errorf("failed to create company: %w", err)
	}
	if err := c.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set company ID: %w", err)
	}
	r.logger.Infow("company created", "id", model.ID, "slug", model.Slug)
	return nil
}

func (r *CompanyRepositoryImpl) GetByID(ctx context.Context, id uint) (*company.Company, error) {
	var model models.CompanyModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get company by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return mappers.CompanyToEntity(&model), nil
}

func (r *CompanyRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*company.Company, error) {
	var model models.CompanyModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get company by slug", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return mappers.CompanyToEntity(&model), nil
}

func (r *CompanyRepositoryImpl) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.CompanyModel{}).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check company slug", "slug", slug, "error", err)
		return false, fmt.Errorf("failed to check company slug: %w", err)
	}
	return count > 0, nil
}
