package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

// RequireStaticToken compares header against a configured shared secret.
// An empty secret rejects every request.
func RequireStaticToken(header, secret string, log logger.Interface) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		got := c.GetHeader(header)
		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			log.Warnw("rejected request with invalid static token",
				"header", header,
				"path", c.Request.URL.Path,
				"ip", c.ClientIP(),
			)
			utils.AbortWithError(c, errors.NewUnauthorizedError("invalid access token"))
			return
		}
		c.Next()
	}
}
