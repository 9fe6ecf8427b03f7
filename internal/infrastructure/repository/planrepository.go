package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/mappers"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/db"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanMapper
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *subscription.Plan) error {
	model, err := r.mapper.ToModel(plan)
	if err != nil {
		r.logger.Errorw("failed to map plan entity to model", "error", err)
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan in database", "slug", model.Slug, "error", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := plan.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set plan ID: %w", err)
	}

	r.logger.Infow("plan created successfully", "id", model.ID, "slug", model.Slug)
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*subscription.Plan, error) {
	var model models.PlanModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by slug", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return r.toEntity(&model)
}

// Update overwrites the editable columns. Plan edits are administrative and
// last-writer-wins.
func (r *PlanRepositoryImpl) Update(ctx context.Context, plan *subscription.Plan) error {
	model, err := r.mapper.ToModel(plan)
	if err != nil {
		r.logger.Errorw("failed to map plan entity to model", "id", plan.ID(), "error", err)
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.PlanModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":           model.Name,
			"description":    model.Description,
			"price":          model.Price,
			"billing_cycle":  model.BillingCycle,
			"trial_days":     model.TrialDays,
			"max_users":      model.MaxUsers,
			"max_leads":      model.MaxLeads,
			"max_storage_gb": model.MaxStorageGB,
			"features":       model.Features,
			"is_active":      model.IsActive,
			"is_public":      model.IsPublic,
			"sort_order":     model.SortOrder,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update plan", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrPlanNotFound
	}

	r.logger.Infow("plan updated successfully", "id", model.ID)
	return nil
}

func (r *PlanRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.PlanModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete plan", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrPlanNotFound
	}

	r.logger.Infow("plan deleted successfully", "id", id)
	return nil
}

func (r *PlanRepositoryImpl) List(ctx context.Context, filter subscription.PlanFilter) ([]*subscription.Plan, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PlanModel{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.OnlyPublic {
		query = query.Where("is_public = ?", true)
	}

	var planModels []*models.PlanModel
	if err := query.Order("sort_order ASC, id ASC").Find(&planModels).Error; err != nil {
		r.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	plans, err := r.mapper.ToEntities(planModels)
	if err != nil {
		r.logger.Errorw("failed to map plan models to entities", "error", err)
		return nil, fmt.Errorf("failed to map plans: %w", err)
	}
	return plans, nil
}

func (r *PlanRepositoryImpl) toEntity(model *models.PlanModel) (*subscription.Plan, error) {
	entity, err := r.mapper.ToEntity(model)
	if err != nil {
		r.logger.Errorw("failed to map plan model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map plan: %w", err)
	}
	return entity, nil
}
