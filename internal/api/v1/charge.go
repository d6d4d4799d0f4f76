package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/service"
)

type ChargeHandler struct {
	service service.ChargeService
	log     *logger.Logger
}

func NewChargeHandler(service service.ChargeService, log *logger.Logger) *ChargeHandler {
	return &ChargeHandler{service: service, log: log}
}

// @Summary Get a charge
// @Tags Charges
// @Produce json
// @Param id path string true "Charge ID"
// @Success 200 {object} dto.ChargeResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /charges/{id} [get]
func (h *ChargeHandler) GetCharge(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Charge ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetCharge(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Record a payment against a charge
// @Description A payment covering the amount due clears the charge, a smaller one leaves it partially paid
// @Tags Charges
// @Accept json
// @Produce json
// @Param id path string true "Charge ID"
// @Param payment body dto.RecordPaymentRequest true "Payment"
// @Success 200 {object} dto.ChargeResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /charges/{id}/payments [post]
func (h *ChargeHandler) RecordPayment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Charge ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind payment request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.log.Errorw("failed to record payment", "charge_id", id, "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
