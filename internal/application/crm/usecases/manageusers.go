package usecases

import (
	"context"
	"fmt"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/dto"
	subscriptionUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type ListUsersUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewListUsersUseCase(userRepo user.Repository, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, companyID uint) ([]*dto.UserDTO, error) {
	users, err := uc.userRepo.ListByCompany(ctx, companyID)
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err, "company_id", companyID)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return dto.ToUserDTOList(users), nil
}

// DeactivateUserUseCase frees the seat held by a team member.
type DeactivateUserUseCase struct {
	userRepo    user.Repository
	invalidator subscriptionUsecases.StatusInvalidator
	logger      logger.Interface
}

func NewDeactivateUserUseCase(userRepo user.Repository, invalidator subscriptionUsecases.StatusInvalidator, logger logger.Interface) *DeactivateUserUseCase {
	return &DeactivateUserUseCase{
		userRepo:    userRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (uc *DeactivateUserUseCase) Execute(ctx context.Context, companyID, actorID, userID uint) error {
	if actorID == userID {
		return apperrors.NewValidationError("you cannot deactivate your own account")
	}

	u, err := uc.userRepo.GetByID(ctx, companyID, userID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", userID)
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return apperrors.NewNotFoundError("user not found")
	}
	if !u.IsActive() {
		return nil
	}

	u.Deactivate()
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user", "error", err, "user_id", userID)
		return fmt.Errorf("failed to update user: %w", err)
	}

	uc.invalidator.InvalidateStatus(ctx, companyID)
	uc.logger.Infow("user deactivated", "user_id", userID, "company_id", companyID)
	return nil
}
