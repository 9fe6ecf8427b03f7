package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/dto"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

const minPasswordLength = 8

type CreateUserCommand struct {
	CompanyID uint
	Name      string
	Email     string
	Password  string
	Role      string
}

// CreateUserUseCase adds a team member, consuming one seat of the user ceiling.
type CreateUserUseCase struct {
	userRepo user.Repository
	hasher   PasswordHasher
	guard    *CapacityGuard
	logger   logger.Interface
}

func NewCreateUserUseCase(userRepo user.Repository, hasher PasswordHasher, guard *CapacityGuard, logger logger.Interface) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		guard:    guard,
		logger:   logger,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (*dto.UserDTO, error) {
	if len(cmd.Password) < minPasswordLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must have at least %d characters", minPasswordLength))
	}
	role := user.Role(strings.ToLower(strings.TrimSpace(cmd.Role)))
	if role == "" {
		role = user.RoleSeller
	}
	if !user.ValidRoles[role] {
		return nil, apperrors.NewValidationError("invalid role", string(role))
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.Email)))
	if err != nil {
		uc.logger.Errorw("failed to check user email", "error", err)
		return nil, fmt.Errorf("failed to check user email: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflictError("email already registered")
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := user.NewUser(cmd.CompanyID, sanitizeText(cmd.Name), cmd.Email, hash, role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = uc.guard.Run(ctx, cmd.CompanyID, vo.ResourceUser, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, u); err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.NewConflictError("email already registered")
			}
			uc.logger.Errorw("failed to create user", "error", err, "company_id", cmd.CompanyID)
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("user created", "user_id", u.ID(), "company_id", cmd.CompanyID, "role", role)
	return dto.ToUserDTO(u), nil
}
