package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/crm/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

type capturePublicLeadUseCase interface {
	Execute(ctx context.Context, cmd usecases.CapturePublicLeadCommand) (*usecases.CapturePublicLeadResult, error)
}

// PublicFormHandler accepts anonymous lead submissions for a company's
// landing page form.
type PublicFormHandler struct {
	captureUC capturePublicLeadUseCase
	logger    logger.Interface
}

func NewPublicFormHandler(captureUC capturePublicLeadUseCase, logger logger.Interface) *PublicFormHandler {
	return &PublicFormHandler{
		captureUC: captureUC,
		logger:    logger,
	}
}

// PublicLeadRequest is validated by the use case, which owns the form rules.
type PublicLeadRequest struct {
	Name           string `json:"nome"`
	Email          string `json:"email"`
	Phone          string `json:"telefone"`
	ConsortiumType string `json:"tipo_consorcio"`
	CreditValue    string `json:"valor_credito"`
	Message        string `json:"mensagem"`
}

// SubmitLead handles POST /api/v1/public/forms/:slug/leads
// @Summary Submit public lead
// @Description Capture a lead from a company's landing page form
// @Tags Public
// @Accept json
// @Produce json
// @Param slug path string true "Company slug"
// @Param request body PublicLeadRequest true "Contact data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /public/forms/{slug}/leads [post]
func (h *PublicFormHandler) SubmitLead(c *gin.Context) {
	var req PublicLeadRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.captureUC.Execute(c.Request.Context(), usecases.CapturePublicLeadCommand{
		CompanySlug:    c.Param("slug"),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		ConsortiumType: req.ConsortiumType,
		CreditValue:    req.CreditValue,
		Message:        req.Message,
	})
	if err != nil {
		h.logger.Infow("public form submission rejected", "slug", c.Param("slug"), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Recebemos seus dados, entraremos em contato em breve")
}
