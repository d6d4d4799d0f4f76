package supabase

import (
	"context"

	supa "github.com/nedpals/supabase-go"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/pagestate"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
)

type pageStateRepository struct {
	client *supa.Client
	logger *logger.Logger
}

func NewPageStateRepository(client *supa.Client, logger *logger.Logger) pagestate.Repository {
	return &pageStateRepository{client: client, logger: logger}
}

func (r *pageStateRepository) Get(ctx context.Context, page, sessionID string) (*pagestate.PageState, error) {
	var rows []pageStateRecord
	err := r.client.DB.From(tablePageStates).
		Select("*").
		Eq("page", page).
		Eq("session_id", sessionID).
		Execute(&rows)
	if err != nil {
		return nil, dbError(err, "Failed to load page state")
	}
	if len(rows) == 0 {
		return nil, ierr.NewError("page state not found").
			WithHint("No saved state for this page").
			WithReportableDetails(map[string]any{"page": page, "session_id": sessionID}).
			Mark(ierr.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

// Put updates the existing document for (page, session) or inserts a new one
func (r *pageStateRepository) Put(ctx context.Context, state *pagestate.PageState) error {
	existing, err := r.Get(ctx, state.Page, state.SessionID)
	if err != nil && !ierr.IsNotFound(err) {
		return err
	}

	var rows []pageStateRecord
	if existing != nil {
		state.ID = existing.ID
		err = r.client.DB.From(tablePageStates).
			Update(toPageStateRecord(state)).
			Eq("id", existing.ID).
			Execute(&rows)
	} else {
		err = r.client.DB.From(tablePageStates).
			Insert(toPageStateRecord(state)).
			Execute(&rows)
	}
	if err != nil {
		return dbError(err, "Failed to save page state")
	}
	return nil
}
