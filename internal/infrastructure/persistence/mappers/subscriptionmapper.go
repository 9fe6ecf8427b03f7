package mappers

import (
	"fmt"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/persistence/models"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) *models.SubscriptionModel
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.SubscriptionStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	entity, err := subscription.ReconstructSubscriptionWithParams(subscription.SubscriptionReconstructParams{
		ID:                    model.ID,
		CompanyID:             model.CompanyID,
		PlanID:                model.PlanID,
		Status:                status,
		TrialEnd:              utcPtr(model.TrialEnd),
		NextDueDate:           utcPtr(model.NextDueDate),
		CancelAtPeriodEnd:     model.CancelAtPeriodEnd,
		CancelledAt:           utcPtr(model.CancelledAt),
		CancelReason:          model.CancelReason,
		GatewayCustomerID:     model.GatewayCustomerID,
		GatewaySubscriptionID: model.GatewaySubscriptionID,
		Version:               model.Version,
		CreatedAt:             model.CreatedAt.UTC(),
		UpdatedAt:             model.UpdatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}
	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) *models.SubscriptionModel {
	if entity == nil {
		return nil
	}
	return &models.SubscriptionModel{
		ID:                    entity.ID(),
		CompanyID:             entity.CompanyID(),
		PlanID:                entity.PlanID(),
		Status:                entity.Status().String(),
		TrialEnd:              entity.TrialEnd(),
		NextDueDate:           entity.NextDueDate(),
		CancelAtPeriodEnd:     entity.CancelAtPeriodEnd(),
		CancelledAt:           entity.CancelledAt(),
		CancelReason:          entity.CancelReason(),
		GatewayCustomerID:     entity.GatewayCustomerID(),
		GatewaySubscriptionID: entity.GatewaySubscriptionID(),
		Version:               entity.Version(),
		CreatedAt:             entity.CreatedAt(),
		UpdatedAt:             entity.UpdatedAt(),
	}
}

func (m *SubscriptionMapperImpl) ToEntities(modelList []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	entities := make([]*subscription.Subscription, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map subscription %d: %w", model.ID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
