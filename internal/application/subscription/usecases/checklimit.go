package usecases

import (
	"context"
	"errors"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

type DecisionReason string

const (
	ReasonWithinLimit          DecisionReason = "within_limit"
	ReasonUnlimited            DecisionReason = "unlimited"
	ReasonLimitReached         DecisionReason = "limit_reached"
	ReasonSubscriptionNotFound DecisionReason = "subscription_not_found"
	ReasonDataUnavailable      DecisionReason = "data_unavailable"
)

// Decision is the verdict for creating one more unit of Kind.
type Decision struct {
	Allowed bool            `json:"allowed"`
	Kind    vo.ResourceKind `json:"kind"`
	Reason  DecisionReason  `json:"reason"`
	Used    float64         `json:"used"`
	Ceiling vo.Ceiling      `json:"ceiling"`
}

// CheckLimitUseCase decides whether a tenant may create one more resource.
// It never creates anything itself.
type CheckLimitUseCase struct {
	resolver StatusResolver
	logger   logger.Interface
}

func NewCheckLimitUseCase(resolver StatusResolver, logger logger.Interface) *CheckLimitUseCase {
	return &CheckLimitUseCase{
		resolver: resolver,
		logger:   logger,
	}
}

// Execute fails closed: when the snapshot cannot be resolved the decision is
// a denial and the resolution error is returned with it.
func (uc *CheckLimitUseCase) Execute(ctx context.Context, companyID uint, kind vo.ResourceKind) (*Decision, error) {
	snap, err := uc.resolver.Execute(ctx, companyID)
	if err != nil {
		reason := ReasonDataUnavailable
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			reason = ReasonSubscriptionNotFound
		}
		uc.logger.Warnw("limit check denied, status unresolved",
			"company_id", companyID,
			"kind", kind,
			"reason", reason,
			"error", err,
		)
		return &Decision{Allowed: false, Kind: kind, Reason: reason}, err
	}

	rs := snap.Resource(kind)
	d := &Decision{
		Allowed: rs.Ceiling.Allows(rs.Used),
		Kind:    kind,
		Used:    rs.Used,
		Ceiling: rs.Ceiling,
	}
	switch {
	case rs.Ceiling.IsUnlimited():
		d.Reason = ReasonUnlimited
	case d.Allowed:
		d.Reason = ReasonWithinLimit
	default:
		d.Reason = ReasonLimitReached
		uc.logger.Infow("resource limit reached",
			"company_id", companyID,
			"kind", kind,
			"used", rs.Used,
			"ceiling", rs.Ceiling.Value(),
		)
	}
	return d, nil
}
