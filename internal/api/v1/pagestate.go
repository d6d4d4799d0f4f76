package v1

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/service"
)

// PageStateHandler stores opaque UI state documents keyed by page and session
type PageStateHandler struct {
	service service.PageStateService
	log     *logger.Logger
}

func NewPageStateHandler(service service.PageStateService, log *logger.Logger) *PageStateHandler {
	return &PageStateHandler{service: service, log: log}
}

// @Summary Get the saved state of a page
// @Tags PageState
// @Produce json
// @Param page path string true "Page"
// @Param session path string true "Session ID"
// @Success 200 {object} dto.PageStateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /pages/{page}/state/{session} [get]
func (h *PageStateHandler) GetPageState(c *gin.Context) {
	resp, err := h.service.GetPageState(c.Request.Context(), c.Param("page"), c.Param("session"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Save the state of a page
// @Description Replaces the stored document with the request body, which must be JSON
// @Tags PageState
// @Accept json
// @Produce json
// @Param page path string true "Page"
// @Param session path string true "Session ID"
// @Param state body object true "State document"
// @Success 200 {object} dto.PageStateResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /pages/{page}/state/{session} [put]
func (h *PageStateHandler) PutPageState(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Could not read request body").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.PutPageState(c.Request.Context(), c.Param("page"), c.Param("session"), json.RawMessage(body))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
