package dto

import (
	"encoding/json"
	"time"

	"github.com/tdtai09423/moe-ui-sub001/internal/domain/pagestate"
)

type PageStateResponse struct {
	Page      string          `json:"page"`
	SessionID string          `json:"session_id"`
	Data      json.RawMessage `json:"data" swaggertype:"object"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewPageStateResponse(s *pagestate.PageState) *PageStateResponse {
	return &PageStateResponse{
		Page:      s.Page,
		SessionID: s.SessionID,
		Data:      s.Data,
		UpdatedAt: s.UpdatedAt,
	}
}
