package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/handlers"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/middleware"
)

// SubscriptionRouteConfig holds dependencies for the tenant's own
// subscription routes.
type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// SetupSubscriptionRoutes configures subscription routes. They stay reachable
// for expired and cancelled tenants so an admin can still pick a plan.
func SetupSubscriptionRoutes(api *gin.RouterGroup, cfg *SubscriptionRouteConfig) {
	sub := api.Group("/subscription")
	sub.Use(cfg.AuthMiddleware.RequireAuth())
	{
		sub.GET("", cfg.SubscriptionHandler.GetSubscription)
		sub.GET("/status", cfg.SubscriptionHandler.GetStatus)

		sub.PUT("/plan", middleware.RequireRole(string(user.RoleAdmin)), cfg.SubscriptionHandler.ChangePlan)
		sub.POST("/cancel", middleware.RequireRole(string(user.RoleAdmin)), cfg.SubscriptionHandler.Cancel)
	}
}

// PlanRouteConfig holds dependencies for plan catalog routes.
type PlanRouteConfig struct {
	PlanHandler *handlers.PlanHandler
	AdminKey    gin.HandlerFunc
}

// SetupPlanRoutes configures the public catalog and the platform admin
// endpoints that manage it.
func SetupPlanRoutes(api *gin.RouterGroup, cfg *PlanRouteConfig) {
	api.GET("/plans", cfg.PlanHandler.ListPublicPlans)

	admin := api.Group("/admin/plans")
	admin.Use(cfg.AdminKey)
	{
		admin.GET("", cfg.PlanHandler.ListAllPlans)
		admin.POST("", cfg.PlanHandler.CreatePlan)
		admin.GET("/:id", cfg.PlanHandler.GetPlan)
		admin.PUT("/:id", cfg.PlanHandler.UpdatePlan)
		admin.DELETE("/:id", cfg.PlanHandler.DeletePlan)
	}
}

// PaymentRouteConfig holds dependencies for the billing gateway webhook.
type PaymentRouteConfig struct {
	PaymentHandler *handlers.PaymentHandler
	WebhookToken   gin.HandlerFunc
}

// SetupPaymentRoutes configures payment callback routes.
func SetupPaymentRoutes(api *gin.RouterGroup, cfg *PaymentRouteConfig) {
	api.POST("/webhooks/payments", cfg.WebhookToken, cfg.PaymentHandler.HandleWebhook)
}
