package supastore

import (
	"context"
	"fmt"

	"github.com/matchpoint-app/gateway/internal/domain/players"
	"github.com/matchpoint-app/gateway/internal/supabase"
)

type Players struct {
	client *supabase.Client
}

func NewPlayers(client *supabase.Client) *Players {
	return &Players{client: client}
}

func (r *Players) Create(ctx context.Context, params players.CreateParams) (*players.Player, error) {
	payload := map[string]any{
		"team_id":    params.TeamID,
		"name":       params.Name,
		"created_by": params.CreatedBy,
	}
	if params.Number != nil {
		payload["number"] = *params.Number
	}
	if params.Position != nil {
		payload["position"] = *params.Position
	}
	if params.HeightCm != nil {
		payload["height_cm"] = *params.HeightCm
	}
	if params.DominantHand != nil {
		payload["dominant_hand"] = *params.DominantHand
	}

	var rows []players.Player
	if err := r.client.From("players").Insert(ctx, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert player: empty representation")
	}
	return &rows[0], nil
}

func (r *Players) ListByTeam(ctx context.Context, teamID string) ([]players.Player, error) {
	rows := []players.Player{}
	err := r.client.From("players").
		Select("*").
		Eq("team_id", teamID).
		Order("number", false).
		Get(ctx, &rows)
	return rows, err
}

func (r *Players) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.client.From("players").Eq("id", id).Update(ctx, fields, nil)
}

func (r *Players) Get(ctx context.Context, id string) (*players.Player, error) {
	var player players.Player
	if err := r.client.From("players").Select("*").Eq("id", id).Single(ctx, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *Players) Delete(ctx context.Context, id string) error {
	return r.client.From("players").Eq("id", id).Delete(ctx)
}
