package mappers

import (
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/storedfile"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
)

func StoredFileToEntity(model *models.StoredFileModel) *storedfile.StoredFile {
	if model == nil {
		return nil
	}
	return storedfile.Reconstruct(storedfile.ReconstructParams{
		ID:          model.ID,
		CompanyID:   model.CompanyID,
		UploadedBy:  model.UploadedBy,
		LeadID:      model.LeadID,
		Name:        model.Name,
		StorageKey:  model.StorageKey,
		ContentType: model.ContentType,
		SizeBytes:   model.SizeBytes,
		CreatedAt:   model.CreatedAt.UTC(),
	})
}

func StoredFileToModel(entity *storedfile.StoredFile) *models.StoredFileModel {
	return &models.StoredFileModel{
		ID:          entity.ID(),
		CompanyID:   entity.CompanyID(),
		UploadedBy:  entity.UploadedBy(),
		LeadID:      entity.LeadID(),
		Name:        entity.Name(),
		StorageKey:  entity.StorageKey(),
		ContentType: entity.ContentType(),
		SizeBytes:   entity.SizeBytes(),
		CreatedAt:   entity.CreatedAt(),
	}
}
