package memory

import (
	"context"

	"github.com/tdtai09423/moe-ui-sub001/internal/domain/pagestate"
)

// PageStateStore implements pagestate.Repository
type PageStateStore struct {
	*InMemoryStore[*pagestate.PageState]
}

func NewPageStateStore() *PageStateStore {
	return &PageStateStore{
		InMemoryStore: NewInMemoryStore[*pagestate.PageState](),
	}
}

func (s *PageStateStore) Get(ctx context.Context, page, sessionID string) (*pagestate.PageState, error) {
	state, err := s.InMemoryStore.Get(ctx, pagestate.Key(page, sessionID))
	if err != nil {
		return nil, err
	}
	copied := *state
	return &copied, nil
}

func (s *PageStateStore) Put(ctx context.Context, state *pagestate.PageState) error {
	copied := *state
	s.InMemoryStore.Put(ctx, pagestate.Key(state.Page, state.SessionID), &copied)
	return nil
}
