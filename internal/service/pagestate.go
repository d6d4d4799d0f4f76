package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	"github.com/tdtai09423/moe-ui-sub001/internal/cache"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/pagestate"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// PageStateService stores the JSON document the front-end keeps per page and session
type PageStateService interface {
	GetPageState(ctx context.Context, page, sessionID string) (*dto.PageStateResponse, error)
	// PutPageState replaces the stored document
	PutPageState(ctx context.Context, page, sessionID string, data json.RawMessage) (*dto.PageStateResponse, error)
}

type pageStateService struct {
	ServiceParams
}

func NewPageStateService(params ServiceParams) PageStateService {
	return &pageStateService{
		ServiceParams: params,
	}
}

func (s *pageStateService) GetPageState(ctx context.Context, page, sessionID string) (*dto.PageStateResponse, error) {
	if err := validatePageKey(page, sessionID); err != nil {
		return nil, err
	}

	key := cache.GenerateKey(cache.PrefixPageState, page, sessionID)
	if s.Cache != nil {
		if value, found := s.Cache.Get(ctx, key); found {
			if state, ok := value.(*pagestate.PageState); ok {
				return dto.NewPageStateResponse(state), nil
			}
		}
	}

	state, err := s.PageStateRepo.Get(ctx, page, sessionID)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, state, 0)
	}
	return dto.NewPageStateResponse(state), nil
}

func (s *pageStateService) PutPageState(ctx context.Context, page, sessionID string, data json.RawMessage) (*dto.PageStateResponse, error) {
	if err := validatePageKey(page, sessionID); err != nil {
		return nil, err
	}

	if len(data) == 0 || !json.Valid(data) {
		return nil, ierr.NewError("page state is not valid json").
			WithHint("Page state must be a JSON document").
			WithReportableDetails(map[string]any{
				"page":       page,
				"session_id": sessionID,
			}).
			Mark(ierr.ErrValidation)
	}

	state := &pagestate.PageState{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAGE_STATE),
		Page:      page,
		SessionID: sessionID,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.PageStateRepo.Put(ctx, state); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixPageState, page, sessionID))
	}

	s.Logger.Debugw("saved page state",
		"page", page,
		"session_id", sessionID,
		"bytes", len(data),
	)
	return dto.NewPageStateResponse(state), nil
}

func validatePageKey(page, sessionID string) error {
	if page == "" || sessionID == "" {
		return ierr.NewError("page and session_id are required").
			WithHint("Page and session are required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
