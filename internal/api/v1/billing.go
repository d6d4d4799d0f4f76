package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/service"
)

// BillingHandler serves the billing engine on request data, nothing is stored
type BillingHandler struct {
	service service.BillingService
	log     *logger.Logger
}

func NewBillingHandler(service service.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{service: service, log: log}
}

// @Summary Get the billing period of an enrollment date
// @Description Compute the period containing the enrollment date for the given cycle
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.BillingPeriodRequest true "Enrollment anchor"
// @Success 200 {object} dto.BillingPeriodResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /billing/period [post]
func (h *BillingHandler) GetBillingPeriod(c *gin.Context) {
	var req dto.BillingPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind billing period request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetBillingPeriod(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview the first charge of an enrollment
// @Description Pro-rate the course fee for the remainder of the first period
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.ProrationPreviewRequest true "Enrollment anchor and fee"
// @Success 200 {object} dto.ProrationPreviewResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /billing/proration [post]
func (h *BillingHandler) PreviewProration(c *gin.Context) {
	var req dto.ProrationPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind proration request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.PreviewProration(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Classify a set of charges
// @Description Derive the payment status and next billing date from charge snapshots
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.PaymentStatusRequest true "Charges"
// @Success 200 {object} dto.PaymentStatusResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /billing/payment-status [post]
func (h *BillingHandler) ClassifyCharges(c *gin.Context) {
	var req dto.PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind payment status request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ClassifyCharges(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Enumerate upcoming billing dates
// @Description List the next billing dates of a cycle after the given day
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body dto.UpcomingCyclesRequest true "Cycle and bounds"
// @Success 200 {object} dto.UpcomingCyclesResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /billing/upcoming-cycles [post]
func (h *BillingHandler) EnumerateCycles(c *gin.Context) {
	var req dto.UpcomingCyclesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind upcoming cycles request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.EnumerateCycles(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
