package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/company/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

type registerCompanyUseCase interface {
	Execute(ctx context.Context, cmd usecases.RegisterCompanyCommand) (*usecases.RegisterCompanyResult, error)
}

type loginUseCase interface {
	Execute(ctx context.Context, cmd usecases.LoginCommand) (*usecases.LoginResult, error)
}

// AuthHandler serves tenant signup and login.
type AuthHandler struct {
	registerUC registerCompanyUseCase
	loginUC    loginUseCase
	logger     logger.Interface
}

func NewAuthHandler(registerUC registerCompanyUseCase, loginUC loginUseCase, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		logger:     logger,
	}
}

type RegisterRequest struct {
	CompanyName   string `json:"company_name" binding:"required,min=2,max=120"`
	CompanySlug   string `json:"company_slug" binding:"required,min=3,max=80"`
	CompanyEmail  string `json:"company_email" binding:"required,email"`
	Phone         string `json:"phone" binding:"omitempty,max=20"`
	Document      string `json:"document" binding:"omitempty,max=20"`
	AdminName     string `json:"admin_name" binding:"required,min=2,max=120"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8,max=72"`
	PlanSlug      string `json:"plan_slug" binding:"omitempty,max=80"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register
// @Summary Register company
// @Description Create a tenant, its admin user and a trial subscription on the chosen plan
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Company and admin data"
// @Success 201 {object} utils.APIResponse{data=usecases.RegisterCompanyResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for register", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.registerUC.Execute(c.Request.Context(), usecases.RegisterCompanyCommand{
		CompanyName:   req.CompanyName,
		CompanySlug:   req.CompanySlug,
		CompanyEmail:  req.CompanyEmail,
		Phone:         req.Phone,
		Document:      req.Document,
		AdminName:     req.AdminName,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
		PlanSlug:      req.PlanSlug,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Company registered successfully")
}

// Login handles POST /api/v1/auth/login
// @Summary Login
// @Description Authenticate a user and issue an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse{data=usecases.LoginResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.loginUC.Execute(c.Request.Context(), usecases.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
