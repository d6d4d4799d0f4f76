package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tdtai09423/moe-ui-sub001/internal/domain/pagestate"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/postgres"
)

type pageStateRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPageStateRepository(db *postgres.DB, logger *logger.Logger) pagestate.Repository {
	return &pageStateRepository{db: db, logger: logger}
}

func (r *pageStateRepository) Get(ctx context.Context, page, sessionID string) (_ *pagestate.PageState, err error) {
	span := StartRepositorySpan(ctx, "page_state", "get", map[string]interface{}{
		"page":       page,
		"session_id": sessionID,
	})
	defer func() { FinishSpan(span, err) }()

	var state pagestate.PageState
	query := `SELECT id, page, session_id, data, updated_at FROM page_states WHERE page = $1 AND session_id = $2`
	if err = r.db.GetQuerier(ctx).GetContext(ctx, &state, query, page, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("No saved state for this page").
				WithReportableDetails(map[string]any{"page": page, "session_id": sessionID}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load page state").
			Mark(ierr.ErrDatabase)
	}
	return &state, nil
}

func (r *pageStateRepository) Put(ctx context.Context, state *pagestate.PageState) (err error) {
	span := StartRepositorySpan(ctx, "page_state", "put", map[string]interface{}{
		"page":       state.Page,
		"session_id": state.SessionID,
	})
	defer func() { FinishSpan(span, err) }()

	query := `
		INSERT INTO page_states (id, page, session_id, data, updated_at)
		VALUES (:id, :page, :session_id, :data, :updated_at)
		ON CONFLICT (page, session_id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`

	// lib/pq sends []byte as bytea, jsonb needs the text form
	args := map[string]interface{}{
		"id":         state.ID,
		"page":       state.Page,
		"session_id": state.SessionID,
		"data":       string(state.Data),
		"updated_at": state.UpdatedAt,
	}
	if _, err = r.db.GetQuerier(ctx).NamedExecContext(ctx, query, args); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to save page state").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
