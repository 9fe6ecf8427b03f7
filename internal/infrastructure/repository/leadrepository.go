package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/lead"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/mappers"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/db"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type LeadRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewLeadRepository(db *gorm.DB, logger logger.Interface) lead.Repository {
	return &LeadRepositoryImpl{db: db, logger: logger}
}

func (r *LeadRepositoryImpl) Create(ctx context.Context, l *lead.Lead) error {
	model := mappers.LeadToModel(l)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create lead", "company_id", model.CompanyID, "error", err)
		return fmt.Errorf("failed to create lead: %w", err)
	}
	if err := l.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set lead ID: %w", err)
	}
	return nil
}

func (r *LeadRepositoryImpl) GetByID(ctx context.Context, companyID, id uint) (*lead.Lead, error) {
	var model models.LeadModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get lead by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return mappers.LeadToEntity(&model), nil
}

func (r *LeadRepositoryImpl) Update(ctx context.Context, l *lead.Lead) error {
	model := mappers.LeadToModel(l)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.LeadModel{}).
		Where("id = ? AND company_id = ?", model.ID, model.CompanyID).
		Updates(map[string]interface{}{
			"owner_id":        model.OwnerID,
			"name":            model.Name,
			"email":           model.Email,
			"phone":           model.Phone,
			"consortium_type": model.ConsortiumType,
			"credit_value":    model.CreditValue,
			"stage":           model.Stage,
			"notes":           model.Notes,
			"lost_reason":     model.LostReason,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update lead", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update lead: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("lead not found")
	}
	return nil
}

// SoftDelete hides the lead; it stops counting toward the lead ceiling.
func (r *LeadRepositoryImpl) SoftDelete(ctx context.Context, companyID, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&models.LeadModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete lead", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete lead: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("lead not found")
	}
	return nil
}

func (r *LeadRepositoryImpl) List(ctx context.Context, filter lead.ListFilter) ([]*lead.Lead, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.LeadModel{}).
		Where("company_id = ?", filter.CompanyID)

	if filter.Stage != "" {
		query = query.Where("stage = ?", filter.Stage.String())
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count leads", "company_id", filter.CompanyID, "error", err)
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var leadModels []*models.LeadModel
	if err := query.Order("updated_at DESC, id DESC").Find(&leadModels).Error; err != nil {
		r.logger.Errorw("failed to list leads", "company_id", filter.CompanyID, "error", err)
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	return mappers.LeadsToEntities(leadModels), total, nil
}

func (r *LeadRepositoryImpl) CountByStage(ctx context.Context, companyID uint) ([]lead.StageCount, error) {
	var rows []struct {
		Stage string
		Count int64
	}
	err := db.GetTxFromContext(ctx, r.db).Model(&models.LeadModel{}).
		Select("stage, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("stage").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to count leads by stage", "company_id", companyID, "error", err)
		return nil, fmt.Errorf("failed to count leads by stage: %w", err)
	}

	counts := make([]lead.StageCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, lead.StageCount{Stage: lead.Stage(row.Stage), Count: row.Count})
	}
	return counts, nil
}
