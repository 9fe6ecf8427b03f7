package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/usecases"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/utils"
)

type processPaymentEventUseCase interface {
	Execute(ctx context.Context, cmd usecases.PaymentEventCommand) (*usecases.PaymentEventResult, error)
}

// PaymentHandler receives billing gateway webhooks. The shared token header is
// checked by middleware before the handler runs.
type PaymentHandler struct {
	processUC processPaymentEventUseCase
	logger    logger.Interface
}

func NewPaymentHandler(processUC processPaymentEventUseCase, logger logger.Interface) *PaymentHandler {
	return &PaymentHandler{
		processUC: processUC,
		logger:    logger,
	}
}

// PaymentWebhookRequest is the gateway notification envelope.
type PaymentWebhookRequest struct {
	Event   string             `json:"event" binding:"required"`
	Payment *WebhookPaymentDTO `json:"payment"`
}

type WebhookPaymentDTO struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Subscription      string `json:"subscription"`
	ExternalReference string `json:"externalReference"`
	Status            string `json:"status"`
}

// HandleWebhook handles POST /api/v1/webhooks/payments
// @Summary Payment webhook
// @Description Apply a billing gateway payment notification to the matching subscription
// @Tags Webhooks
// @Accept json
// @Produce json
// @Security WebhookToken
// @Param request body PaymentWebhookRequest true "Gateway event"
// @Success 200 {object} utils.APIResponse{data=usecases.PaymentEventResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /webhooks/payments [post]
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	var req PaymentWebhookRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid payment webhook payload", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.PaymentEventCommand{Event: req.Event}
	if req.Payment != nil {
		cmd.PaymentID = req.Payment.ID
		cmd.GatewayCustomerID = req.Payment.Customer
		cmd.GatewaySubscriptionID = req.Payment.Subscription
		cmd.ExternalReference = req.Payment.ExternalReference
	}

	result, err := h.processUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("failed to process payment event",
			"event", req.Event,
			"payment_id", cmd.PaymentID,
			"error", err,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
