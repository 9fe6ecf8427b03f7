package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/lead"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type CreateLeadCommand struct {
	CompanyID      uint
	OwnerID        *uint
	Name           string
	Email          string
	Phone          string
	ConsortiumType string
	CreditValue    decimal.Decimal
	Notes          string
}

type CreateLeadUseCase struct {
	leadRepo lead.Repository
	guard    *CapacityGuard
	logger   logger.Interface
}

func NewCreateLeadUseCase(leadRepo lead.Repository, guard *CapacityGuard, logger logger.Interface) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		leadRepo: leadRepo,
		guard:    guard,
		logger:   logger,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, cmd CreateLeadCommand) (*dto.LeadDTO, error) {
	l, err := lead.NewLead(lead.NewLeadParams{
		CompanyID:      cmd.CompanyID,
		OwnerID:        cmd.OwnerID,
		Name:           sanitizeText(cmd.Name),
		Email:          cmd.Email,
		Phone:          cmd.Phone,
		ConsortiumType: lead.ConsortiumType(cmd.ConsortiumType),
		CreditValue:    cmd.CreditValue,
		Source:         lead.SourceManual,
		Notes:          sanitizeText(cmd.Notes),
	})
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = uc.guard.Run(ctx, cmd.CompanyID, vo.ResourceLead, func(ctx context.Context) error {
		if err := uc.leadRepo.Create(ctx, l); err != nil {
			uc.logger.Errorw("failed to create lead", "error", err, "company_id", cmd.CompanyID)
			return fmt.Errorf("failed to create lead: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("lead created", "lead_id", l.ID(), "company_id", cmd.CompanyID)
	return dto.ToLeadDTO(l), nil
}
