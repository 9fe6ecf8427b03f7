package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/mappers"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/db"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepositoryImpl{db: db, logger: logger}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model := mappers.UserToModel(u)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user", "company_id", model.CompanyID, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	if err := u.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set user ID: %w", err)
	}
	r.logger.Infow("user created", "id", model.ID, "company_id", model.CompanyID)
	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, companyID, id uint) (*user.User, error) {
	var model models.UserModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return mappers.UserToEntity(&model), nil
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return mappers.UserToEntity(&model), nil
}

func (r *UserRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check user email", "error", err)
		return false, fmt.Errorf("failed to check user email: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) ListByCompany(ctx context.Context, companyID uint) ([]*user.User, error) {
	var userModels []*models.UserModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("company_id = ?", companyID).
		Order("name ASC, id ASC").
		Find(&userModels).Error
	if err != nil {
		r.logger.Errorw("failed to list users", "company_id", companyID, "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return mappers.UsersToEntities(userModels), nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, u *user.User) error {
	model := mappers.UserToModel(u)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("id = ? AND company_id = ?", model.ID, model.CompanyID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"email":         model.Email,
			"password_hash": model.PasswordHash,
			"role":          model.Role,
			"is_active":     model.IsActive,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update user", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}
