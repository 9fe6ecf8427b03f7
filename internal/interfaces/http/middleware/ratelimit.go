package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/ratelimit"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

// RateLimitMiddleware throttles anonymous endpoints per client IP.
type RateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	scope   string
	logger  logger.Interface
}

func NewRateLimitMiddleware(limiter ratelimit.RateLimiter, scope string, perMinute int, logger logger.Interface) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		config:  ratelimit.RateLimitConfig{RequestsPerMinute: perMinute},
		scope:   scope,
		logger:  logger,
	}
}

// Limit lets the request through when the limiter backend fails so that a
// Redis outage does not take the public form down.
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := m.scope + ":" + c.ClientIP()

		allowed, err := m.limiter.Allow(c.Request.Context(), key, m.config)
		if err != nil {
			m.logger.Warnw("rate limiter unavailable, allowing request",
				"key", key,
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			m.logger.Infow("rate limit exceeded", "key", key, "path", c.Request.URL.Path)
			utils.AbortWithError(c, errors.NewTooManyRequestsError("rate limit exceeded, please try again later"))
			return
		}

		c.Next()
	}
}
