package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/middleware"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

type createUserUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateUserCommand) (*dto.UserDTO, error)
}

type listUsersUseCase interface {
	Execute(ctx context.Context, companyID uint) ([]*dto.UserDTO, error)
}

type deactivateUserUseCase interface {
	Execute(ctx context.Context, companyID, actorID, userID uint) error
}

// TeamHandler manages the users of the authenticated tenant.
type TeamHandler struct {
	createUC     createUserUseCase
	listUC       listUsersUseCase
	deactivateUC deactivateUserUseCase
	logger       logger.Interface
}

func NewTeamHandler(
	createUC createUserUseCase,
	listUC listUsersUseCase,
	deactivateUC deactivateUserUseCase,
	logger logger.Interface,
) *TeamHandler {
	return &TeamHandler{
		createUC:     createUC,
		listUC:       listUC,
		deactivateUC: deactivateUC,
		logger:       logger,
	}
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email,max=160"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=admin manager seller"`
}

// CreateUser handles POST /api/v1/users
// @Summary Create user
// @Description Add a seller or manager to the team. Counts against the plan user limit
// @Tags Users
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} utils.APIResponse{data=dto.UserDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /users [post]
func (h *TeamHandler) CreateUser(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateUserCommand{
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "User created successfully")
}

// ListUsers handles GET /api/v1/users
// @Summary List users
// @Tags Users
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=[]dto.UserDTO}
// @Router /users [get]
func (h *TeamHandler) ListUsers(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), companyID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// DeactivateUser handles DELETE /api/v1/users/:id
// @Summary Deactivate user
// @Tags Users
// @Security Bearer
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /users/{id} [delete]
func (h *TeamHandler) DeactivateUser(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actorID, err := middleware.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	userID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deactivateUC.Execute(c.Request.Context(), companyID, actorID, userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
