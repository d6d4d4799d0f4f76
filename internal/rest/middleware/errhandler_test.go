package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware, ErrorHandler())
	r.GET("/", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp ErrorResponse
	if w.Code >= http.StatusBadRequest {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		details map[string]any
	}{
		{
			name: "hint and details",
			err: ierr.NewError("charge not found").
				WithHint("Charge chg_1 was not found").
				WithReportableDetails(map[string]any{"charge_id": "chg_1"}).
				Mark(ierr.ErrNotFound),
			status:  http.StatusNotFound,
			message: "Charge chg_1 was not found",
			details: map[string]any{"charge_id": "chg_1"},
		},
		{
			name:    "client error without hint",
			err:     ierr.NewError("amount must be positive").Mark(ierr.ErrValidation),
			status:  http.StatusBadRequest,
			message: "amount must be positive",
		},
		{
			name:    "internal error is not exposed",
			err:     errors.New("connection reset by peer"),
			status:  http.StatusInternalServerError,
			message: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := serve(t, func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Error.Display)
			if tt.details != nil {
				assert.Equal(t, tt.details, resp.Error.Details)
			}
		})
	}
}

func TestErrorHandler_NoError(t *testing.T) {
	w, _ := serve(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(types.HeaderRequestID))
}
