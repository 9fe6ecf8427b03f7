package http

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/csiqueira956/cflow-gestor-backend-sub002/docs"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/storage"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/middleware"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/routes"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/constants"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/goroutine"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	c.engine.GET("/health", c.hdlrs.health.HealthCheck)

	if local, ok := c.fileStorage.(*storage.LocalStorage); ok && c.cfg.Storage.PublicURL != "" {
		c.engine.Static(c.cfg.Storage.PublicURL, local.Root())
	}

	api := c.engine.Group("/api/v1")

	routes.SetupAuthRoutes(api, &routes.AuthRouteConfig{
		AuthHandler: c.hdlrs.auth,
		RateLimiter: c.authRateLimit,
	})
	routes.SetupPlanRoutes(api, &routes.PlanRouteConfig{
		PlanHandler: c.hdlrs.plan,
		AdminKey:    middleware.RequireStaticToken(constants.HeaderAdminKey, c.cfg.Admin.APIKey, c.log),
	})
	routes.SetupPaymentRoutes(api, &routes.PaymentRouteConfig{
		PaymentHandler: c.hdlrs.payment,
		WebhookToken:   middleware.RequireStaticToken(constants.HeaderWebhookToken, c.cfg.Webhook.Token, c.log),
	})
	routes.SetupSubscriptionRoutes(api, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: c.hdlrs.subscription,
		AuthMiddleware:      c.authMiddleware,
	})
	routes.SetupCRMRoutes(api, &routes.CRMRouteConfig{
		LeadHandler:            c.hdlrs.lead,
		TeamHandler:            c.hdlrs.team,
		FileHandler:            c.hdlrs.file,
		AuthMiddleware:         c.authMiddleware,
		SubscriptionMiddleware: c.subscriptionMiddleware,
		PermissionMiddleware:   c.permissionMiddleware,
	})
	routes.SetupPublicFormRoutes(api, &routes.PublicFormRouteConfig{
		PublicFormHandler: c.hdlrs.publicForm,
		RateLimiter:       c.publicFormRateLimit,
	})
}

// GetEngine returns the Gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// Start launches the background jobs and, with Redis enabled, the listener
// for invalidations published by other instances.
func (c *Container) Start(ctx context.Context) {
	c.schedulerMgr.Start()

	if c.bus == nil {
		return
	}
	busCtx, cancel := context.WithCancel(ctx)
	c.busCancelMu.Lock()
	c.busCancel = cancel
	c.busCancelMu.Unlock()

	goroutine.SafeGo(c.log, "status-invalidation-subscriber", func() {
		if err := c.bus.SubscribeWithReconnect(busCtx); err != nil && busCtx.Err() == nil {
			c.log.Errorw("status invalidation subscriber stopped", "error", err)
		}
	})
}

// Shutdown stops background work and releases the Redis connection. The
// database is closed by the caller.
func (c *Container) Shutdown() {
	if err := c.schedulerMgr.Stop(); err != nil {
		c.log.Warnw("failed to stop scheduler", "error", err)
	}

	c.busCancelMu.Lock()
	if c.busCancel != nil {
		c.busCancel()
		c.busCancel = nil
	}
	c.busCancelMu.Unlock()

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
