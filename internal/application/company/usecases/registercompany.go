package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	subscriptionUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/company"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/clock"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/db"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

const minPasswordLength = 8

type RegisterCompanyCommand struct {
	CompanyName   string
	CompanySlug   string
	CompanyEmail  string
	Phone         string
	Document      string
	AdminName     string
	AdminEmail    string
	AdminPassword string
	// PlanSlug selects the trial plan; empty means the configured default.
	PlanSlug string
}

type RegisterCompanyResult struct {
	CompanyID      uint      `json:"company_id"`
	UserID         uint      `json:"user_id"`
	SubscriptionID uint      `json:"subscription_id"`
	PlanSlug       string    `json:"plan_slug"`
	TrialEnd       time.Time `json:"trial_end"`
}

// RegisterCompanyUseCase signs up a tenant: the company, its first admin and
// a TRIAL subscription are created in one transaction.
type RegisterCompanyUseCase struct {
	companyRepo      company.Repository
	userRepo         user.Repository
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	txManager        db.Transactor
	hasher           PasswordHasher
	invalidator      subscriptionUsecases.StatusInvalidator
	clock            clock.Clock
	defaultPlanSlug  string
	defaultTrialDays int
	logger           logger.Interface
}

func NewRegisterCompanyUseCase(
	companyRepo company.Repository,
	userRepo user.Repository,
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	txManager db.Transactor,
	hasher PasswordHasher,
	invalidator subscriptionUsecases.StatusInvalidator,
	clk clock.Clock,
	defaultPlanSlug string,
	defaultTrialDays int,
	logger logger.Interface,
) *RegisterCompanyUseCase {
	return &RegisterCompanyUseCase{
		companyRepo:      companyRepo,
		userRepo:         userRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		txManager:        txManager,
		hasher:           hasher,
		invalidator:      invalidator,
		clock:            clk,
		defaultPlanSlug:  defaultPlanSlug,
		defaultTrialDays: defaultTrialDays,
		logger:           logger,
	}
}

func (uc *RegisterCompanyUseCase) Execute(ctx context.Context, cmd RegisterCompanyCommand) (*RegisterCompanyResult, error) {
	if len(cmd.AdminPassword) < minPasswordLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must have at least %d characters", minPasswordLength))
	}

	comp, err := company.NewCompany(cmd.CompanyName, cmd.CompanySlug, cmd.CompanyEmail, cmd.Phone, cmd.Document)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	exists, err := uc.companyRepo.ExistsBySlug(ctx, comp.Slug())
	if err != nil {
		uc.logger.Errorw("failed to check company slug", "error", err, "slug", comp.Slug())
		return nil, fmt.Errorf("failed to check company slug: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflictError("company slug already in use", comp.Slug())
	}

	emailTaken, err := uc.userRepo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.AdminEmail)))
	if err != nil {
		uc.logger.Errorw("failed to check user email", "error", err)
		return nil, fmt.Errorf("failed to check user email: %w", err)
	}
	if emailTaken {
		return nil, apperrors.NewConflictError("email already registered")
	}

	plan, err := uc.trialPlan(ctx, cmd.PlanSlug)
	if err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(cmd.AdminPassword)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := uc.clock.Now()
	trialDays := plan.TrialDays()
	if trialDays <= 0 {
		trialDays = uc.defaultTrialDays
	}
	trialEnd := now.AddDate(0, 0, trialDays)

	result := &RegisterCompanyResult{PlanSlug: plan.Slug(), TrialEnd: trialEnd}
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.companyRepo.Create(txCtx, comp); err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}

		admin, err := user.NewUser(comp.ID(), cmd.AdminName, cmd.AdminEmail, hash, user.RoleAdmin)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		if err := uc.userRepo.Create(txCtx, admin); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		active, err := uc.subscriptionRepo.ExistsActiveForCompany(txCtx, comp.ID())
		if err != nil {
			return fmt.Errorf("failed to check existing subscription: %w", err)
		}
		if active {
			return apperrors.NewConflictError(subscription.ErrActiveSubscriptionExists.Error())
		}

		sub, err := subscription.NewTrialSubscription(comp.ID(), plan.ID(), trialEnd, now)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		if err := uc.subscriptionRepo.Create(txCtx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		result.CompanyID = comp.ID()
		result.UserID = admin.ID()
		result.SubscriptionID = sub.ID()
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("company or email already registered")
		}
		uc.logger.Errorw("failed to register company", "error", err, "slug", comp.Slug())
		return nil, err
	}

	uc.invalidator.InvalidateStatus(ctx, result.CompanyID)

	uc.logger.Infow("company registered",
		"company_id", result.CompanyID,
		"user_id", result.UserID,
		"subscription_id", result.SubscriptionID,
		"plan", plan.Slug(),
		"trial_end", trialEnd,
	)
	return result, nil
}

func (uc *RegisterCompanyUseCase) trialPlan(ctx context.Context, slug string) (*subscription.Plan, error) {
	if strings.TrimSpace(slug) == "" {
		slug = uc.defaultPlanSlug
	}
	plan, err := uc.planRepo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "slug", slug)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewValidationError("plan not found", slug)
	}
	if !plan.IsActive() {
		return nil, apperrors.NewValidationError(subscription.ErrPlanInactive.Error(), slug)
	}
	return plan, nil
}
