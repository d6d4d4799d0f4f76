package pagestate

import (
	"encoding/json"
	"time"
)

// PageState is the JSON document the front-end keeps per page and session
type PageState struct {
	ID        string          `db:"id" json:"id"`
	Page      string          `db:"page" json:"page"`
	SessionID string          `db:"session_id" json:"session_id"`
	Data      json.RawMessage `db:"data" json:"data"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Key is the lookup key of a page state document
func Key(page, sessionID string) string {
	return page + ":" + sessionID
}
