package mappers

import (
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
)

func UserToEntity(model *models.UserModel) *user.User {
	if model == nil {
		return nil
	}
	return user.Reconstruct(user.ReconstructParams{
		ID:           model.ID,
		CompanyID:    model.CompanyID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Role:         user.Role(model.Role),
		IsActive:     model.IsActive,
		CreatedAt:    model.CreatedAt.UTC(),
		UpdatedAt:    model.UpdatedAt.UTC(),
	})
}

func UserToModel(entity *user.User) *models.UserModel {
	return &models.UserModel{
		ID:           entity.ID(),
		CompanyID:    entity.CompanyID(),
		Name:         entity.Name(),
		Email:        entity.Email(),
		PasswordHash: entity.PasswordHash(),
		Role:         entity.Role().String(),
		IsActive:     entity.IsActive(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

func UsersToEntities(modelList []*models.UserModel) []*user.User {
	out := make([]*user.User, 0, len(modelList))
	for _, m := range modelList {
		out = append(out, UserToEntity(m))
	}
	return out
}
