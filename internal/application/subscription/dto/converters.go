package dto

import (
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
)

func ToPlanDTO(plan *subscription.Plan) *PlanDTO {
	if plan == nil {
		return nil
	}

	features := plan.Features()
	if features == nil {
		features = []string{}
	}

	return &PlanDTO{
		ID:           plan.ID(),
		Name:         plan.Name(),
		Slug:         plan.Slug(),
		Description:  plan.Description(),
		Price:        plan.Price(),
		BillingCycle: plan.BillingCycle().String(),
		TrialDays:    plan.TrialDays(),
		Limits:       plan.Limits(),
		Features:     features,
		IsActive:     plan.IsActive(),
		IsPublic:     plan.IsPublic(),
		SortOrder:    plan.SortOrder(),
		CreatedAt:    plan.CreatedAt(),
		UpdatedAt:    plan.UpdatedAt(),
	}
}

// ToPlanDTOList returns an empty slice for no plans so the JSON is [] not null.
func ToPlanDTOList(plans []*subscription.Plan) []*PlanDTO {
	dtos := make([]*PlanDTO, 0, len(plans))
	for _, p := range plans {
		if p != nil {
			dtos = append(dtos, ToPlanDTO(p))
		}
	}
	return dtos
}

func ToSubscriptionDTO(sub *subscription.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	return &SubscriptionDTO{
		ID:                sub.ID(),
		CompanyID:         sub.CompanyID(),
		PlanID:            sub.PlanID(),
		Status:            sub.Status().String(),
		TrialEnd:          sub.TrialEnd(),
		NextDueDate:       sub.NextDueDate(),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd(),
		CancelledAt:       sub.CancelledAt(),
		CancelReason:      sub.CancelReason(),
		CreatedAt:         sub.CreatedAt(),
		UpdatedAt:         sub.UpdatedAt(),
	}
}
