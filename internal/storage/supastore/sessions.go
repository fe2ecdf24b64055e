package supastore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matchpoint-app/gateway/internal/domain/sessions"
	"github.com/matchpoint-app/gateway/internal/supabase"
)

type Sessions struct {
	client *supabase.Client
}

func NewSessions(client *supabase.Client) *Sessions {
	return &Sessions{client: client}
}

func (r *Sessions) Create(ctx context.Context, params sessions.CreateParams) (*sessions.Session, error) {
	payload := map[string]any{
		"team_id":    params.TeamID,
		"kind":       params.Kind,
		"eval_level": params.EvalLevel,
		"best_of":    params.BestOf,
		"status":     params.Status,
		"created_by": params.CreatedBy,
	}
	if params.OpponentTeamID != nil {
		payload["opponent_team_id"] = *params.OpponentTeamID
	}
	if params.OpponentName != nil {
		payload["opponent_name"] = *params.OpponentName
	}

	var rows []sessions.Session
	if err := r.client.From("sessions").Insert(ctx, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert session: empty representation")
	}
	return &rows[0], nil
}

func (r *Sessions) List(ctx context.Context) ([]sessions.Session, error) {
	rows := []sessions.Session{}
	err := r.client.From("sessions").Select("*").Order("started_at", true).Get(ctx, &rows)
	return rows, err
}

func (r *Sessions) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.client.From("sessions").Eq("id", id).Update(ctx, fields, nil)
}

func (r *Sessions) Get(ctx context.Context, id string) (*sessions.Session, error) {
	var session sessions.Session
	if err := r.client.From("sessions").Select("*").Eq("id", id).Single(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *Sessions) Score(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return r.rpc(ctx, "session_score", sessionID)
}

func (r *Sessions) Boxscore(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return r.rpc(ctx, "player_boxscore", sessionID)
}

func (r *Sessions) rpc(ctx context.Context, fn, sessionID string) (json.RawMessage, error) {
	var out json.RawMessage
	err := r.client.Rpc(ctx, fn, map[string]string{"p_session_id": sessionID}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
