package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	subscriptionUsecases "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/company"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/lead"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// CapturePublicLeadCommand is what a visitor submits on a company's public form.
type CapturePublicLeadCommand struct {
	CompanySlug    string `validate:"required,max=80"`
	Name           string `validate:"required,min=2,max=120"`
	Email          string `validate:"required_without=Phone,omitempty,email,max=160"`
	Phone          string `validate:"required_without=Email,omitempty,min=8,max=20"`
	ConsortiumType string `validate:"omitempty,oneof=imovel veiculo servicos outro"`
	CreditValue    string `validate:"omitempty,numeric"`
	Message        string `validate:"max=2000"`
}

type CapturePublicLeadResult struct {
	LeadID uint `json:"lead_id"`
}

// CapturePublicLeadUseCase turns an anonymous form submission into a lead of
// the company identified by slug. The form is closed while the company's
// subscription is expired or cancelled, and it is gated by the lead ceiling
// like any other lead creation.
type CapturePublicLeadUseCase struct {
	companyRepo company.Repository
	leadRepo    lead.Repository
	resolver    subscriptionUsecases.StatusResolver
	guard       *CapacityGuard
	validate    *validator.Validate
	logger      logger.Interface
}

func NewCapturePublicLeadUseCase(
	companyRepo company.Repository,
	leadRepo lead.Repository,
	resolver subscriptionUsecases.StatusResolver,
	guard *CapacityGuard,
	logger logger.Interface,
) *CapturePublicLeadUseCase {
	return &CapturePublicLeadUseCase{
		companyRepo: companyRepo,
		leadRepo:    leadRepo,
		resolver:    resolver,
		guard:       guard,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

func (uc *CapturePublicLeadUseCase) Execute(ctx context.Context, cmd CapturePublicLeadCommand) (*CapturePublicLeadResult, error) {
	if err := uc.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError("invalid form submission", validationDetails(err))
	}

	comp, err := uc.companyRepo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(cmd.CompanySlug)))
	if err != nil {
		uc.logger.Errorw("failed to get company by slug", "error", err, "slug", cmd.CompanySlug)
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if comp == nil || !comp.IsActive() {
		return nil, apperrors.NewNotFoundError("form not found")
	}

	snap, err := uc.resolver.Execute(ctx, comp.ID())
	if err != nil {
		uc.logger.Warnw("failed to resolve subscription status for public form", "error", err, "company_id", comp.ID())
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, subscriptionUsecases.MapStatusError(err)
	}
	if !snap.Status.CanUseService() {
		uc.logger.Infow("public form rejected, subscription not in service", "company_id", comp.ID(), "status", snap.Status)
		return nil, apperrors.NewNotFoundError("form not found")
	}

	credit := decimal.Zero
	if cmd.CreditValue != "" {
		credit, err = decimal.NewFromString(cmd.CreditValue)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid credit value")
		}
	}

	l, err := lead.NewLead(lead.NewLeadParams{
		CompanyID:      comp.ID(),
		Name:           sanitizeText(cmd.Name),
		Email:          cmd.Email,
		Phone:          cmd.Phone,
		ConsortiumType: lead.ConsortiumType(cmd.ConsortiumType),
		CreditValue:    credit,
		Source:         lead.SourcePublicForm,
		Notes:          sanitizeText(cmd.Message),
	})
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = uc.guard.Run(ctx, comp.ID(), vo.ResourceLead, func(ctx context.Context) error {
		if err := uc.leadRepo.Create(ctx, l); err != nil {
			uc.logger.Errorw("failed to create public lead", "error", err, "company_id", comp.ID())
			return fmt.Errorf("failed to create lead: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("public lead captured", "lead_id", l.ID(), "company_id", comp.ID())
	return &CapturePublicLeadResult{LeadID: l.ID()}, nil
}

func validationDetails(err error) string {
	var fields []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return strings.Join(fields, "; ")
	}
	return err.Error()
}
