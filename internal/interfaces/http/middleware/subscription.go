package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	vo "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription/valueobjects"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

// SubscriptionMiddleware rejects tenants whose subscription no longer grants
// service. Resource ceilings are enforced separately by the capacity guard of
// each create flow.
type SubscriptionMiddleware struct {
	resolver usecases.StatusResolver
	logger   logger.Interface
}

func NewSubscriptionMiddleware(resolver usecases.StatusResolver, logger logger.Interface) *SubscriptionMiddleware {
	return &SubscriptionMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// RequireActiveSubscription answers 402 for EXPIRED or CANCELLED tenants.
// TRIAL and ACTIVE pass, and so does OVERDUE. The resolved snapshot is
// stored on the context for handlers.
func (m *SubscriptionMiddleware) RequireActiveSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, err := GetCompanyID(c)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		snap, err := m.resolver.Execute(c.Request.Context(), companyID)
		if err != nil {
			m.logger.Warnw("failed to resolve subscription status",
				"company_id", companyID,
				"error", err,
			)
			utils.AbortWithError(c, usecases.MapStatusError(err))
			return
		}

		if !snap.Status.CanUseService() {
			msg := "subscription expired"
			if snap.Status == vo.StatusCancelled {
				msg = "subscription cancelled"
			}
			utils.AbortWithError(c, errors.NewPaymentRequiredError(msg, snap.Status.String()))
			return
		}

		c.Set(constants.ContextKeySnapshot, snap)
		c.Next()
	}
}
