package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/middleware"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

type createLeadUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateLeadCommand) (*dto.LeadDTO, error)
}

type listLeadsUseCase interface {
	Execute(ctx context.Context, query usecases.ListLeadsQuery) (*dto.BoardDTO, error)
}

type moveLeadUseCase interface {
	Execute(ctx context.Context, cmd usecases.MoveLeadCommand) (*dto.LeadDTO, error)
}

type deleteLeadUseCase interface {
	Execute(ctx context.Context, companyID, leadID uint) error
}

// LeadHandler serves the sales pipeline of the authenticated tenant.
type LeadHandler struct {
	createUC createLeadUseCase
	listUC   listLeadsUseCase
	moveUC   moveLeadUseCase
	deleteUC deleteLeadUseCase
	logger   logger.Interface
}

func NewLeadHandler(
	createUC createLeadUseCase,
	listUC listLeadsUseCase,
	moveUC moveLeadUseCase,
	deleteUC deleteLeadUseCase,
	logger logger.Interface,
) *LeadHandler {
	return &LeadHandler{
		createUC: createUC,
		listUC:   listUC,
		moveUC:   moveUC,
		deleteUC: deleteUC,
		logger:   logger,
	}
}

type CreateLeadRequest struct {
	OwnerID        *uint           `json:"owner_id"`
	Name           string          `json:"name" binding:"required,min=2,max=120"`
	Email          string          `json:"email" binding:"omitempty,email,max=160"`
	Phone          string          `json:"phone" binding:"omitempty,max=20"`
	ConsortiumType string          `json:"consortium_type" binding:"omitempty,oneof=imovel veiculo servicos outro"`
	CreditValue    decimal.Decimal `json:"credit_value"`
	Notes          string          `json:"notes" binding:"max=2000"`
}

type MoveLeadRequest struct {
	Stage      string `json:"stage" binding:"required"`
	LostReason string `json:"lost_reason" binding:"max=500"`
}

// CreateLead handles POST /api/v1/leads
// @Summary Create lead
// @Description Add a lead to the board. Counts against the plan lead limit
// @Tags Leads
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateLeadRequest true "Lead data"
// @Success 201 {object} utils.APIResponse{data=dto.LeadDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /leads [post]
func (h *LeadHandler) CreateLead(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateLeadRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	owner := req.OwnerID
	if owner == nil {
		owner = &userID
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateLeadCommand{
		CompanyID:      companyID,
		OwnerID:        owner,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		ConsortiumType: req.ConsortiumType,
		CreditValue:    req.CreditValue,
		Notes:          req.Notes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Lead created successfully")
}

// ListLeads handles GET /api/v1/leads
// @Summary List leads
// @Description List the company's leads grouped by pipeline stage
// @Tags Leads
// @Produce json
// @Security Bearer
// @Param stage query string false "Stage filter"
// @Param owner_id query int false "Owner filter"
// @Param search query string false "Name, email or phone search"
// @Success 200 {object} utils.APIResponse{data=dto.BoardDTO}
// @Failure 403 {object} utils.APIResponse
// @Router /leads [get]
func (h *LeadHandler) ListLeads(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	ownerID, err := parseOptionalIDQuery(c, "owner_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListLeadsQuery{
		CompanyID:  companyID,
		Stage:      c.Query("stage"),
		OwnerID:    ownerID,
		Search:     c.Query("search"),
		Pagination: utils.ParsePagination(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// MoveLead handles PATCH /api/v1/leads/:id/stage
// @Summary Move lead
// @Description Move a lead to another pipeline stage
// @Tags Leads
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Lead ID"
// @Param request body MoveLeadRequest true "Target stage"
// @Success 200 {object} utils.APIResponse{data=dto.LeadDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /leads/{id}/stage [patch]
func (h *LeadHandler) MoveLead(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	leadID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req MoveLeadRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.moveUC.Execute(c.Request.Context(), usecases.MoveLeadCommand{
		CompanyID:  companyID,
		LeadID:     leadID,
		Stage:      req.Stage,
		LostReason: req.LostReason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// DeleteLead handles DELETE /api/v1/leads/:id
// @Summary Delete lead
// @Tags Leads
// @Security Bearer
// @Param id path int true "Lead ID"
// @Success 204
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /leads/{id} [delete]
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	companyID, err := middleware.GetCompanyID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	leadID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), companyID, leadID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
