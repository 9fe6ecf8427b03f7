package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type LoginCommand struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      uint      `json:"user_id"`
	CompanyID   uint      `json:"company_id"`
	Role        string    `json:"role"`
}

type LoginUseCase struct {
	userRepo user.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewLoginUseCase(userRepo user.Repository, hasher PasswordHasher, tokens TokenIssuer, logger logger.Interface) *LoginUseCase {
	return &LoginUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	u, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.Email)))
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil || !u.IsActive() {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	if err := uc.hasher.Compare(u.PasswordHash(), cmd.Password); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}

	token, expiresAt, err := uc.tokens.Issue(u.ID(), u.CompanyID(), u.Role().String())
	if err != nil {
		uc.logger.Errorw("failed to issue token", "error", err, "user_id", u.ID())
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	uc.logger.Infow("user logged in", "user_id", u.ID(), "company_id", u.CompanyID())
	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      u.ID(),
		CompanyID:   u.CompanyID(),
		Role:        u.Role().String(),
	}, nil
}
