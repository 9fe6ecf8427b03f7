package mappers

import (
	"gorm.io/gorm"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/lead"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
)

func LeadToEntity(model *models.LeadModel) *lead.Lead {
	if model == nil {
		return nil
	}
	p := lead.ReconstructParams{
		ID:             model.ID,
		CompanyID:      model.CompanyID,
		OwnerID:        model.OwnerID,
		Name:           model.Name,
		Email:          model.Email,
		Phone:          model.Phone,
		ConsortiumType: lead.ConsortiumType(model.ConsortiumType),
		CreditValue:    model.CreditValue,
		Stage:          lead.Stage(model.Stage),
		Source:         lead.Source(model.Source),
		Notes:          model.Notes,
		LostReason:     model.LostReason,
		CreatedAt:      model.CreatedAt.UTC(),
		UpdatedAt:      model.UpdatedAt.UTC(),
	}
	if model.DeletedAt.Valid {
		t := model.DeletedAt.Time.UTC()
		p.DeletedAt = &t
	}
	return lead.Reconstruct(p)
}

func LeadToModel(entity *lead.Lead) *models.LeadModel {
	m := &models.LeadModel{
		ID:             entity.ID(),
		CompanyID:      entity.CompanyID(),
		OwnerID:        entity.OwnerID(),
		Name:           entity.Name(),
		Email:          entity.Email(),
		Phone:          entity.Phone(),
		ConsortiumType: string(entity.ConsortiumType()),
		CreditValue:    entity.CreditValue(),
		Stage:          entity.Stage().String(),
		Source:         string(entity.Source()),
		Notes:          entity.Notes(),
		LostReason:     entity.LostReason(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}
	if d := entity.DeletedAt(); d != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *d, Valid: true}
	}
	return m
}

func LeadsToEntities(modelList []*models.LeadModel) []*lead.Lead {
	out := make([]*lead.Lead, 0, len(modelList))
	for _, m := range modelList {
		out = append(out, LeadToEntity(m))
	}
	return out
}
