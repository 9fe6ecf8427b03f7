package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	subdto "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/subscription"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/middleware"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

type resolveStatusUseCase interface {
	Execute(ctx context.Context, companyID uint) (*subscription.StatusSnapshot, error)
}

type getSubscriptionUseCase interface {
	Execute(ctx context.Context, companyID uint) (*subdto.SubscriptionDTO, error)
}

type changePlanUseCase interface {
	Execute(ctx context.Context, cmd usecases.ChangePlanCommand) (*subdto.SubscriptionDTO, error)
}

type cancelSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CancelSubscriptionCommand) (*subdto.SubscriptionDTO, error)
}

// SubscriptionHandler serves the caller's own subscription. The tenant always
// comes from the token.
type SubscriptionHandler struct {
	resolveUC resolveStatusUseCase
	getUC     getSubscriptionUseCase
	changeUC  changePlanUseCase
	cancelUC  cancelSubscriptionUseCase
	logger    logger.Interface
}

func NewSubscriptionHandler(
	resolveUC resolveStatusUseCase,
	getUC getSubscriptionUseCase,
	changeUC changePlanUseCase,
	cancelUC cancelSubscriptionUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		resolveUC: resolveUC,
		getUC:     getUC,
		changeUC:  changeUC,
		cancelUC:  cancelUC,
		logger:    logger,
	}
}

type ChangePlanRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

type CancelSubscriptionRequest struct {
	Reason    string `json:"reason" binding:"max=500"`
	Immediate bool   `json:"immediate"`
}

// GetStatus handles GET /api/v1/subscription/status
// @Summary Get subscription status
// @Description Resolve the effective subscription status and plan limits of the caller's company
// @Tags Subscription
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=subscription.StatusSnapshot}
// @Failure 412 {object} utils.APIResponse
// @Router /subscription/status [get]
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	snap, err := h.resolveUC.Execute(c.Request.Context(), companyID)
	if err != nil {
		h.logger.Warnw("failed to resolve subscription status", "company_id", companyID, "error", err)
		utils.ErrorResponseWithError(c, usecases.MapStatusError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", snap)
}

// GetSubscription handles GET /api/v1/subscription
// @Summary Get subscription
// @Tags Subscription
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=subdto.SubscriptionDTO}
// @Failure 412 {object} utils.APIResponse
// @Router /subscription [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), companyID)
	if err != nil {
		utils.ErrorResponseWithError(c, usecases.MapStatusError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ChangePlan handles PUT /api/v1/subscription/plan
// @Summary Change plan
// @Tags Subscription
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ChangePlanRequest true "Target plan"
// @Success 200 {object} utils.APIResponse{data=subdto.SubscriptionDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /subscription/plan [put]
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ChangePlanRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.changeUC.Execute(c.Request.Context(), usecases.ChangePlanCommand{
		CompanyID: companyID,
		PlanID:    req.PlanID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, usecases.MapStatusError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan changed successfully", result)
}

// Cancel handles POST /api/v1/subscription/cancel
// @Summary Cancel subscription
// @Description Cancel now or at the end of the current billing period
// @Tags Subscription
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CancelSubscriptionRequest true "Cancellation options"
// @Success 200 {object} utils.APIResponse{data=subdto.SubscriptionDTO}
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /subscription/cancel [post]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CancelSubscriptionRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.cancelUC.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		CompanyID: companyID,
		Reason:    req.Reason,
		Immediate: req.Immediate,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, usecases.MapStatusError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled", result)
}
