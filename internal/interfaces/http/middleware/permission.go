package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

// PermissionChecker is satisfied by permission.Enforcer.
type PermissionChecker interface {
	Enforce(role, resource, action string) (bool, error)
}

type PermissionMiddleware struct {
	checker PermissionChecker
	logger  logger.Interface
}

func NewPermissionMiddleware(checker PermissionChecker, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		checker: checker,
		logger:  logger,
	}
}

// RequirePermission admits the request only when the caller's role holds
// action on resource. Must run after RequireAuth.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constants.ContextKeyUserRole)
		if role == "" {
			utils.AbortWithError(c, errors.NewUnauthorizedError("user not authenticated"))
			return
		}

		allowed, err := m.checker.Enforce(role, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
			utils.AbortWithError(c, errors.NewInternalError("permission check failed"))
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied",
				"user_id", c.GetUint(constants.ContextKeyUserID),
				"role", role,
				"resource", resource,
				"action", action,
			)
			utils.AbortWithError(c, errors.NewForbiddenError("insufficient permissions"))
			return
		}

		c.Next()
	}
}
