package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/mappers"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/db"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) subscription.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := r.mapper.ToModel(sub)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "company_id", model.CompanyID, "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set subscription ID", "error", err)
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created successfully", "id", model.ID, "company_id", model.CompanyID, "plan_id", model.PlanID)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return r.toEntity(&model)
}

// GetCurrentByCompanyID prefers the open subscription and falls back to the
// most recent cancelled one.
func (r *SubscriptionRepositoryImpl) GetCurrentByCompanyID(ctx context.Context, companyID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("company_id = ?", companyID).
		Order("CASE WHEN status = '"+vo.StatusCancelled.String()+"' THEN 1 ELSE 0 END").
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get current subscription", "company_id", companyID, "error", err)
		return nil, fmt.Errorf("failed to get current subscription: %w", err)
	}
	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetByGatewaySubscriptionID(ctx context.Context, gatewayID string) (*subscription.Subscription, error) {
	if gatewayID == "" {
		return nil, nil
	}
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("gateway_subscription_id = ?", gatewayID).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by gateway ID", "gateway_subscription_id", gatewayID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return r.toEntity(&model)
}

// Update writes sub only if the stored version still matches the one it was
// loaded with, then bumps the version on both sides.
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *subscription.Subscription) error {
	model := r.mapper.ToModel(sub)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"plan_id":                 model.PlanID,
			"status":                  model.Status,
			"trial_end":               model.TrialEnd,
			"next_due_date":           model.NextDueDate,
			"cancel_at_period_end":    model.CancelAtPeriodEnd,
			"cancelled_at":            model.CancelledAt,
			"cancel_reason":           model.CancelReason,
			"gateway_customer_id":     model.GatewayCustomerID,
			"gateway_subscription_id": model.GatewaySubscriptionID,
			"version":                 gorm.Expr("version + 1"),
			"updated_at":              model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warnw("subscription modified concurrently", "id", model.ID, "version", model.Version)
		return subscription.ErrConcurrentUpdate
	}

	sub.IncrementVersion()
	r.logger.Infow("subscription updated successfully", "id", model.ID, "status", model.Status)
	return nil
}

func (r *SubscriptionRepositoryImpl) ExistsActiveForCompany(ctx context.Context, companyID uint) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("company_id = ? AND status <> ?", companyID, vo.StatusCancelled.String()).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check open subscription", "company_id", companyID, "error", err)
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return count > 0, nil
}

// FindLapsedTrials returns TRIAL rows whose trial ended strictly before now.
func (r *SubscriptionRepositoryImpl) FindLapsedTrials(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	return r.findDue(ctx, "trial_end", now, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", vo.StatusTrial.String())
	})
}

// FindLapsedPayments returns ACTIVE rows whose due date passed strictly before
// now, leaving out rows set to cancel at period end.
func (r *SubscriptionRepositoryImpl) FindLapsedPayments(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	return r.findDue(ctx, "next_due_date", now, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ? AND cancel_at_period_end = ?", vo.StatusActive.String(), false)
	})
}

// FindEndedPeriods returns ACTIVE or OVERDUE rows set to cancel at period end
// whose due date passed strictly before now.
func (r *SubscriptionRepositoryImpl) FindEndedPeriods(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	return r.findDue(ctx, "next_due_date", now, func(q *gorm.DB) *gorm.DB {
		return q.Where("status IN ? AND cancel_at_period_end = ?",
			[]string{vo.StatusActive.String(), vo.StatusOverdue.String()}, true)
	})
}

func (r *SubscriptionRepositoryImpl) findDue(ctx context.Context, column string, now time.Time, scope func(*gorm.DB) *gorm.DB) ([]*subscription.Subscription, error) {
	var subModels []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(scope).
		Where(column+" IS NOT NULL AND "+column+" < ?", now.UTC()).
		Order("id ASC").
		Find(&subModels).Error
	if err != nil {
		r.logger.Errorw("failed to find due subscriptions", "column", column, "error", err)
		return nil, fmt.Errorf("failed to find due subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(subModels)
	if err != nil {
		r.logger.Errorw("failed to map subscription models to entities", "error", err)
		return nil, fmt.Errorf("failed to map subscriptions: %w", err)
	}
	return entities, nil
}

func (r *SubscriptionRepositoryImpl) ListCompanyIDsByPlanID(ctx context.Context, planID uint) ([]uint, error) {
	var ids []uint
	err := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("plan_id = ? AND status <> ?", planID, vo.StatusCancelled.String()).
		Distinct().
		Pluck("company_id", &ids).Error
	if err != nil {
		r.logger.Errorw("failed to list subscribers of plan", "plan_id", planID, "error", err)
		return nil, fmt.Errorf("failed to list plan subscribers: %w", err)
	}
	return ids, nil
}

// CountByPlanID counts every subscription referencing the plan, cancelled ones included.
func (r *SubscriptionRepositoryImpl) CountByPlanID(ctx context.Context, planID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("plan_id = ?", planID).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count plan subscriptions", "plan_id", planID, "error", err)
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepositoryImpl) toEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	entity, err := r.mapper.ToEntity(model)
	if err != nil {
		r.logger.Errorw("failed to map subscription model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}
	return entity, nil
}
