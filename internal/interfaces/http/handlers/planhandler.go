package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	subdto "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

type createPlanUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreatePlanCommand) (*subdto.PlanDTO, error)
}

type updatePlanUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdatePlanCommand) (*subdto.PlanDTO, error)
}

type deletePlanUseCase interface {
	Execute(ctx context.Context, planID uint) error
}

type getPlanUseCase interface {
	Execute(ctx context.Context, planID uint) (*subdto.PlanDTO, error)
}

type listPlansUseCase interface {
	Execute(ctx context.Context, query usecases.ListPlansQuery) ([]*subdto.PlanDTO, error)
}

type PlanHandler struct {
	createPlanUC createPlanUseCase
	updatePlanUC updatePlanUseCase
	deletePlanUC deletePlanUseCase
	getPlanUC    getPlanUseCase
	listPlansUC  listPlansUseCase
	logger       logger.Interface
}

func NewPlanHandler(
	createPlanUC createPlanUseCase,
	updatePlanUC updatePlanUseCase,
	deletePlanUC deletePlanUseCase,
	getPlanUC getPlanUseCase,
	listPlansUC listPlansUseCase,
	logger logger.Interface,
) *PlanHandler {
	return &PlanHandler{
		createPlanUC: createPlanUC,
		updatePlanUC: updatePlanUC,
		deletePlanUC: deletePlanUC,
		getPlanUC:    getPlanUC,
		listPlansUC:  listPlansUC,
		logger:       logger,
	}
}

// CreatePlanRequest takes limits as integers, "unlimited" or null.
type CreatePlanRequest struct {
	Name         string                   `json:"name" binding:"required,max=80"`
	Slug         string                   `json:"slug" binding:"required,max=80"`
	Description  string                   `json:"description" binding:"max=1000"`
	Price        decimal.Decimal          `json:"price"`
	BillingCycle string                   `json:"billing_cycle" binding:"required"`
	TrialDays    int                      `json:"trial_days" binding:"min=0,max=365"`
	Limits       *subscription.PlanLimits `json:"limits" binding:"required"`
	Features     []string                 `json:"features"`
	IsPublic     bool                     `json:"is_public"`
	SortOrder    int                      `json:"sort_order"`
}

type UpdatePlanRequest struct {
	Name         *string                  `json:"name"`
	Description  *string                  `json:"description"`
	Features     []string                 `json:"features"`
	Price        *decimal.Decimal         `json:"price"`
	BillingCycle *string                  `json:"billing_cycle"`
	Limits       *subscription.PlanLimits `json:"limits"`
	IsActive     *bool                    `json:"is_active"`
	IsPublic     *bool                    `json:"is_public"`
	SortOrder    *int                     `json:"sort_order"`
}

// CreatePlan handles POST /api/v1/admin/plans
// @Summary Create plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security AdminKey
// @Param request body CreatePlanRequest true "Plan data"
// @Success 201 {object} utils.APIResponse{data=subdto.PlanDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create plan", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createPlanUC.Execute(c.Request.Context(), usecases.CreatePlanCommand{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Price:        req.Price,
		BillingCycle: req.BillingCycle,
		TrialDays:    req.TrialDays,
		Limits:       *req.Limits,
		Features:     req.Features,
		IsPublic:     req.IsPublic,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Plan created successfully")
}

// UpdatePlan handles PUT /api/v1/admin/plans/:id
// @Summary Update plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security AdminKey
// @Param id path int true "Plan ID"
// @Param request body UpdatePlanRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=subdto.PlanDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /admin/plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdatePlanRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for update plan",
			"plan_id", planID,
			"error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updatePlanUC.Execute(c.Request.Context(), usecases.UpdatePlanCommand{
		PlanID:       planID,
		Name:         req.Name,
		Description:  req.Description,
		Features:     req.Features,
		Price:        req.Price,
		BillingCycle: req.BillingCycle,
		Limits:       req.Limits,
		IsActive:     req.IsActive,
		IsPublic:     req.IsPublic,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan updated successfully", result)
}

// DeletePlan handles DELETE /api/v1/admin/plans/:id
// @Summary Delete plan
// @Description Delete a plan that no subscription references
// @Tags Plans
// @Security AdminKey
// @Param id path int true "Plan ID"
// @Success 204
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deletePlanUC.Execute(c.Request.Context(), planID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// GetPlan handles GET /api/v1/admin/plans/:id
// @Summary Get plan
// @Tags Plans
// @Produce json
// @Security AdminKey
// @Param id path int true "Plan ID"
// @Success 200 {object} utils.APIResponse{data=subdto.PlanDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /admin/plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getPlanUC.Execute(c.Request.Context(), planID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListPublicPlans handles GET /api/v1/plans
// @Summary List public plans
// @Tags Plans
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]subdto.PlanDTO}
// @Router /plans [get]
func (h *PlanHandler) ListPublicPlans(c *gin.Context) {
	h.list(c, true)
}

// ListAllPlans handles GET /api/v1/admin/plans
// @Summary List all plans
// @Tags Plans
// @Produce json
// @Security AdminKey
// @Success 200 {object} utils.APIResponse{data=[]subdto.PlanDTO}
// @Router /admin/plans [get]
func (h *PlanHandler) ListAllPlans(c *gin.Context) {
	h.list(c, false)
}

func (h *PlanHandler) list(c *gin.Context, publicOnly bool) {
	result, err := h.listPlansUC.Execute(c.Request.Context(), usecases.ListPlansQuery{PublicOnly: publicOnly})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
