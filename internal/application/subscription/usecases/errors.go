package usecases

import (
	"context"
	"errors"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
)

// MapStatusError translates status resolution failures into the HTTP-facing
// error taxonomy. Unknown errors are returned unchanged.
func MapStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		return apperrors.NewPreconditionFailedError("company has no subscription")
	case errors.Is(err, subscription.ErrPlanNotFound),
		errors.Is(err, subscription.ErrDataUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewServiceUnavailableError("subscription status is temporarily unavailable")
	default:
		return err
	}
}
