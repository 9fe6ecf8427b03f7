package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/permission"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/handlers"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/middleware"
)

// CRMRouteConfig holds dependencies for the lead board, team and document
// routes. All of them require a subscription that can use the service.
type CRMRouteConfig struct {
	LeadHandler            *handlers.LeadHandler
	TeamHandler            *handlers.TeamHandler
	FileHandler            *handlers.FileHandler
	AuthMiddleware         *middleware.AuthMiddleware
	SubscriptionMiddleware *middleware.SubscriptionMiddleware
	PermissionMiddleware   *middleware.PermissionMiddleware
}

// SetupCRMRoutes configures tenant CRM routes.
func SetupCRMRoutes(api *gin.RouterGroup, cfg *CRMRouteConfig) {
	crm := api.Group("")
	crm.Use(cfg.AuthMiddleware.RequireAuth())
	crm.Use(cfg.SubscriptionMiddleware.RequireActiveSubscription())
	can := cfg.PermissionMiddleware.RequirePermission

	leads := crm.Group("/leads")
	{
		leads.GET("", cfg.LeadHandler.ListLeads)
		leads.POST("", cfg.LeadHandler.CreateLead)
		leads.PATCH("/:id/stage", cfg.LeadHandler.MoveLead)
		leads.DELETE("/:id", can(permission.ResourceLead, permission.ActionDelete), cfg.LeadHandler.DeleteLead)
	}

	users := crm.Group("/users")
	{
		users.GET("", cfg.TeamHandler.ListUsers)
		users.POST("", can(permission.ResourceUser, permission.ActionCreate), cfg.TeamHandler.CreateUser)
		users.DELETE("/:id", can(permission.ResourceUser, permission.ActionDelete), cfg.TeamHandler.DeactivateUser)
	}

	files := crm.Group("/files")
	{
		files.GET("", cfg.FileHandler.ListFiles)
		files.POST("", cfg.FileHandler.UploadFile)
		files.DELETE("/:id", cfg.FileHandler.DeleteFile)
	}
}

// PublicFormRouteConfig holds dependencies for anonymous lead capture.
type PublicFormRouteConfig struct {
	PublicFormHandler *handlers.PublicFormHandler
	RateLimiter       *middleware.RateLimitMiddleware
}

// SetupPublicFormRoutes configures the landing page form endpoint.
func SetupPublicFormRoutes(api *gin.RouterGroup, cfg *PublicFormRouteConfig) {
	api.POST("/public/forms/:slug/leads", cfg.RateLimiter.Limit(), cfg.PublicFormHandler.SubmitLead)
}
