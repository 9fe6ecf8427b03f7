package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
)

type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*subscription.Plan, error)
	ToModel(entity *subscription.Plan) (*models.PlanModel, error)
	ToEntities(models []*models.PlanModel) ([]*subscription.Plan, error)
}

type PlanMapperImpl struct{}

func NewPlanMapper() PlanMapper {
	return &PlanMapperImpl{}
}

func (m *PlanMapperImpl) ToEntity(model *models.PlanModel) (*subscription.Plan, error) {
	if model == nil {
		return nil, nil
	}

	cycle, err := vo.ParseBillingCycle(model.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("failed to parse billing cycle: %w", err)
	}

	var features []string
	if len(model.Features) > 0 {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
	}

	entity, err := subscription.ReconstructPlanWithParams(subscription.PlanReconstructParams{
		ID:           model.ID,
		Slug:         model.Slug,
		Name:         model.Name,
		Description:  model.Description,
		Price:        model.Price,
		BillingCycle: cycle,
		TrialDays:    model.TrialDays,
		Limits: subscription.PlanLimits{
			MaxUsers:     vo.CeilingFromNullable(model.MaxUsers),
			MaxLeads:     vo.CeilingFromNullable(model.MaxLeads),
			MaxStorageGB: vo.CeilingFromNullable(model.MaxStorageGB),
		},
		Features:  features,
		IsActive:  model.IsActive,
		IsPublic:  model.IsPublic,
		SortOrder: model.SortOrder,
		Version:   model.Version,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}
	return entity, nil
}

func (m *PlanMapperImpl) ToModel(entity *subscription.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	var featuresJSON datatypes.JSON
	if features := entity.Features(); len(features) > 0 {
		data, err := json.Marshal(features)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal features: %w", err)
		}
		featuresJSON = data
	}

	limits := entity.Limits()
	return &models.PlanModel{
		ID:           entity.ID(),
		Slug:         entity.Slug(),
		Name:         entity.Name(),
		Description:  entity.Description(),
		Price:        entity.Price(),
		BillingCycle: entity.BillingCycle().String(),
		TrialDays:    entity.TrialDays(),
		MaxUsers:     limits.MaxUsers.Nullable(),
		MaxLeads:     limits.MaxLeads.Nullable(),
		MaxStorageGB: limits.MaxStorageGB.Nullable(),
		Features:     featuresJSON,
		IsActive:     entity.IsActive(),
		IsPublic:     entity.IsPublic(),
		SortOrder:    entity.SortOrder(),
		Version:      entity.Version(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}, nil
}

func (m *PlanMapperImpl) ToEntities(modelList []*models.PlanModel) ([]*subscription.Plan, error) {
	entities := make([]*subscription.Plan, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map plan %d: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
