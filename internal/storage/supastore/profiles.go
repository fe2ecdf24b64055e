package supastore

import (
	"context"
	"encoding/json"

	"github.com/matchpoint-app/gateway/internal/supabase"
)

type Profiles struct {
	client *supabase.Client
}

func NewProfiles(client *supabase.Client) *Profiles {
	return &Profiles{client: client}
}

// ByID fetches the caller's profile row. The profile is optional: a
// missing row (or one hidden by RLS) is reported as absent, not as an
// error, and the row shape is passed through untouched.
func (r *Profiles) ByID(ctx context.Context, userID string) (json.RawMessage, bool, error) {
	var profile json.RawMessage
	found, err := r.client.From("profiles").
		Select("*").
		Eq("id", userID).
		Maybe(ctx, &profile)
	if err != nil || !found {
		return nil, false, err
	}
	return profile, true, nil
}
