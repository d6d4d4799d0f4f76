package supabase

import (
	supa "github.com/nedpals/supabase-go"
	"github.com/tdtai09423/moe-ui-sub001/internal/config"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
)

const (
	tableEnrollments = "enrollments"
	tableCharges     = "charges"
	tablePageStates  = "page_states"
)

// NewClient creates the PostgREST backed client used by every Supabase repository
func NewClient(cfg *config.Configuration) (*supa.Client, error) {
	client := supa.CreateClient(cfg.Supabase.URL, cfg.Supabase.Key)
	if client == nil {
		return nil, ierr.NewError("failed to create supabase client").
			WithHint("Check supabase.url and supabase.key").
			Mark(ierr.ErrSystem)
	}
	return client, nil
}

func dbError(err error, hint string) error {
	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrDatabase)
}
