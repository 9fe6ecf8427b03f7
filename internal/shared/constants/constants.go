package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderWebhookToken  = "asaas-access-token"
	HeaderAdminKey      = "X-Admin-Key"

	// Gin context keys set by the auth middleware. company_id is the only
	// source of the tenant for downstream handlers.
	ContextKeyCompanyID = "company_id"
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
	ContextKeySnapshot  = "subscription_snapshot"
)

const (
	TablePlans         = "plans"
	TableSubscriptions = "subscriptions"
	TableCompanies     = "companies"
	TableUsers         = "users"
	TableLeads         = "leads"
	TableStoredFiles   = "stored_files"
)
