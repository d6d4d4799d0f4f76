package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/service"
)

// BillingRunHandler lets an external scheduler trigger the monthly billing run
type BillingRunHandler struct {
	billingRunService service.BillingRunService
	logger            *logger.Logger
}

func NewBillingRunHandler(billingRunService service.BillingRunService, logger *logger.Logger) *BillingRunHandler {
	return &BillingRunHandler{
		billingRunService: billingRunService,
		logger:            logger,
	}
}

// @Summary Run billing
// @Description Raise the periodic charges due on the run date, today by default
// @Tags Cron
// @Accept json
// @Produce json
// @Param request body dto.BillingRunRequest false "Run date override"
// @Success 200 {object} dto.BillingRunResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /cron/billing-run [post]
func (h *BillingRunHandler) RunBilling(c *gin.Context) {
	var req dto.BillingRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	h.logger.Infow("starting billing run", "run_date", req.RunDate)

	resp, err := h.billingRunService.Run(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("billing run failed", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
