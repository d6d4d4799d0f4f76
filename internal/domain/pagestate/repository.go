package pagestate

import "context"

// Repository is a key-value store of page state documents keyed by page and session
type Repository interface {
	Get(ctx context.Context, page, sessionID string) (*PageState, error)
	// Put creates or replaces the document
	Put(ctx context.Context, state *PageState) error
}
