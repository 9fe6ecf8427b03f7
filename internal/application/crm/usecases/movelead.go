package usecases

import (
	"context"
	"fmt"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/lead"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type MoveLeadCommand struct {
	CompanyID  uint
	LeadID     uint
	Stage      string
	LostReason string
}

type MoveLeadUseCase struct {
	leadRepo lead.Repository
	logger   logger.Interface
}

func NewMoveLeadUseCase(leadRepo lead.Repository, logger logger.Interface) *MoveLeadUseCase {
	return &MoveLeadUseCase{
		leadRepo: leadRepo,
		logger:   logger,
	}
}

func (uc *MoveLeadUseCase) Execute(ctx context.Context, cmd MoveLeadCommand) (*dto.LeadDTO, error) {
	stage, err := lead.ParseStage(cmd.Stage)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	l, err := uc.leadRepo.GetByID(ctx, cmd.CompanyID, cmd.LeadID)
	if err != nil {
		uc.logger.Errorw("failed to get lead", "error", err, "lead_id", cmd.LeadID)
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if l == nil {
		return nil, apperrors.NewNotFoundError("lead not found")
	}

	from := l.Stage()
	if err := l.MoveTo(stage, sanitizeText(cmd.LostReason)); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.leadRepo.Update(ctx, l); err != nil {
		uc.logger.Errorw("failed to update lead", "error", err, "lead_id", cmd.LeadID)
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	uc.logger.Infow("lead moved", "lead_id", l.ID(), "from", from, "to", stage)
	return dto.ToLeadDTO(l), nil
}
