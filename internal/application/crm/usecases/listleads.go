package usecases

import (
	"context"
	"fmt"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/lead"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

type ListLeadsQuery struct {
	CompanyID  uint
	Stage      string
	OwnerID    *uint
	Search     string
	Pagination utils.Pagination
}

type ListLeadsUseCase struct {
	leadRepo lead.Repository
	logger   logger.Interface
}

func NewListLeadsUseCase(leadRepo lead.Repository, logger logger.Interface) *ListLeadsUseCase {
	return &ListLeadsUseCase{
		leadRepo: leadRepo,
		logger:   logger,
	}
}

func (uc *ListLeadsUseCase) Execute(ctx context.Context, query ListLeadsQuery) (*dto.BoardDTO, error) {
	filter := lead.ListFilter{
		CompanyID: query.CompanyID,
		OwnerID:   query.OwnerID,
		Search:    query.Search,
		Offset:    query.Pagination.Offset(),
		Limit:     query.Pagination.PageSize,
	}
	if query.Stage != "" {
		stage, err := lead.ParseStage(query.Stage)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		filter.Stage = stage
	}

	leads, total, err := uc.leadRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list leads", "error", err, "company_id", query.CompanyID)
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	counts, err := uc.leadRepo.CountByStage(ctx, query.CompanyID)
	if err != nil {
		uc.logger.Errorw("failed to count leads by stage", "error", err, "company_id", query.CompanyID)
		return nil, fmt.Errorf("failed to count leads by stage: %w", err)
	}

	return &dto.BoardDTO{
		Leads:      dto.ToLeadDTOList(leads),
		Total:      total,
		Page:       query.Pagination.Page,
		PageSize:   query.Pagination.PageSize,
		TotalPages: utils.TotalPages(total, query.Pagination.PageSize),
		Stages:     fillStages(counts),
	}, nil
}

// fillStages returns every board column in order, including empty ones.
func fillStages(counts []lead.StageCount) []lead.StageCount {
	byStage := make(map[lead.Stage]int64, len(counts))
	for _, c := range counts {
		byStage[c.Stage] = c.Count
	}
	out := make([]lead.StageCount, 0, len(lead.Stages))
	for _, s := range lead.Stages {
		out = append(out, lead.StageCount{Stage: s, Count: byStage[s]})
	}
	return out
}
