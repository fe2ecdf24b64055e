package supastore

import (
	"context"
	"fmt"

	"github.com/matchpoint-app/gateway/internal/domain/events"
	"github.com/matchpoint-app/gateway/internal/supabase"
)

type Events struct {
	client *supabase.Client
}

func NewEvents(client *supabase.Client) *Events {
	return &Events{client: client}
}

// Insert appends one event. event_seq is assigned by the store; the
// gateway never generates sequence numbers.
func (r *Events) Insert(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	payload := map[string]any{
		"session_id": params.SessionID,
		"team_side":  params.TeamSide,
		"kind":       params.Kind,
		"meta":       params.Meta,
		"created_by": params.CreatedBy,
	}
	if params.PlayerID != nil {
		payload["player_id"] = *params.PlayerID
	}
	if params.OpponentNumber != nil {
		payload["opponent_number"] = *params.OpponentNumber
	}
	if params.Result != nil {
		payload["result"] = *params.Result
	}
	if params.Notes != nil {
		payload["notes"] = *params.Notes
	}
	if params.SetNo != nil {
		payload["set_no"] = *params.SetNo
	}

	var rows []events.Event
	if err := r.client.From("events").Insert(ctx, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert event: empty representation")
	}
	return &rows[0], nil
}

// List pages the session's log forward by event_seq. The cursor filter
// is strictly-greater, so rows are never repeated across pages and
// concurrent appends only ever land beyond the cursor.
func (r *Events) List(ctx context.Context, params events.ListParams) ([]events.Event, error) {
	query := r.client.From("events").
		Select("*").
		Eq("session_id", params.SessionID)
	if params.After != nil {
		query = query.Gt("event_seq", *params.After)
	}
	if params.Limit != nil {
		query = query.Limit(*params.Limit)
	}
	rows := []events.Event{}
	err := query.Order("event_seq", false).Get(ctx, &rows)
	return rows, err
}
