package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/service"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

type EnrollmentHandler struct {
	service        service.EnrollmentService
	billingService service.BillingService
	chargeService  service.ChargeService
	log            *logger.Logger
}

func NewEnrollmentHandler(
	service service.EnrollmentService,
	billingService service.BillingService,
	chargeService service.ChargeService,
	log *logger.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		service:        service,
		billingService: billingService,
		chargeService:  chargeService,
		log:            log,
	}
}

// @Summary Create an enrollment
// @Description Enroll a student in a course and raise the first, possibly pro-rated, charge
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param enrollment body dto.CreateEnrollmentRequest true "Enrollment"
// @Success 201 {object} dto.EnrollmentResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /enrollments [post]
func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind enrollment request", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateEnrollment(c.Request.Context(), req)
	if err != nil {
		h.log.Errorw("failed to create enrollment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param filter query types.EnrollmentFilter false "Filter"
// @Success 200 {object} dto.ListEnrollmentsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	var filter types.EnrollmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListEnrollments(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} dto.EnrollmentResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	id, ok := enrollmentID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetEnrollment(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get the payment status of an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} dto.PaymentStatusResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /enrollments/{id}/status [get]
func (h *EnrollmentHandler) GetPaymentStatus(c *gin.Context) {
	id, ok := enrollmentID(c)
	if !ok {
		return
	}

	resp, err := h.billingService.GetPaymentStatus(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List the upcoming billing dates of an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param query query dto.UpcomingCyclesQuery false "Bounds"
// @Success 200 {object} dto.UpcomingCyclesResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /enrollments/{id}/upcoming-cycles [get]
func (h *EnrollmentHandler) GetUpcomingCycles(c *gin.Context) {
	id, ok := enrollmentID(c)
	if !ok {
		return
	}

	var query dto.UpcomingCyclesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.billingService.GetUpcomingCycles(c.Request.Context(), id, query)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get the billing summary of an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} dto.EnrollmentSummaryResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /enrollments/{id}/summary [get]
func (h *EnrollmentHandler) GetSummary(c *gin.Context) {
	id, ok := enrollmentID(c)
	if !ok {
		return
	}

	resp, err := h.billingService.GetEnrollmentSummary(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List the charges of an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param statuses query []string false "Charge statuses"
// @Success 200 {object} dto.ListChargesResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /enrollments/{id}/charges [get]
func (h *EnrollmentHandler) ListCharges(c *gin.Context) {
	id, ok := enrollmentID(c)
	if !ok {
		return
	}

	var filter types.ChargeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	filter.EnrollmentID = id

	resp, err := h.chargeService.ListCharges(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func enrollmentID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Enrollment ID is required").
			Mark(ierr.ErrValidation))
		return "", false
	}
	return id, true
}
