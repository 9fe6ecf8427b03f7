package mappers

import (
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/company"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
)

func CompanyToEntity(model *models.CompanyModel) *company.Company {
	if model == nil {
		return nil
	}
	return company.Reconstruct(company.ReconstructParams{
		ID:        model.ID,
		Name:      model.Name,
		Slug:      model.Slug,
		Email:     model.Email,
		Phone:     model.Phone,
		Document:  model.Document,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt.UTC(),
		UpdatedAt: model.UpdatedAt.UTC(),
	})
}

func CompanyToModel(entity *company.Company) *models.CompanyModel {
	return &models.CompanyModel{
		ID:        entity.ID(),
		Name:      entity.Name(),
		Slug:      entity.Slug(),
		Email:     entity.Email(),
		Phone:     entity.Phone(),
		Document:  entity.Document(),
		IsActive:  entity.IsActive(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}
