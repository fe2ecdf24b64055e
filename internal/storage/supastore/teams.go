// Package supastore implements the domain repositories on top of the
// Supabase client. Repositories are request-scoped: each wraps the
// query handle (caller-scoped or privileged) it was constructed with
// and is discarded at request end.
package supastore

import (
	"context"
	"fmt"

	"github.com/matchpoint-app/gateway/internal/domain/teams"
	"github.com/matchpoint-app/gateway/internal/supabase"
)

// Teams is the caller-scoped teams repository; RLS decides visibility.
type Teams struct {
	client *supabase.Client
}

func NewTeams(client *supabase.Client) *Teams {
	return &Teams{client: client}
}

func (r *Teams) Create(ctx context.Context, params teams.CreateParams) (*teams.Team, error) {
	isOurs := true
	if params.IsOurs != nil {
		isOurs = *params.IsOurs
	}
	payload := map[string]any{
		"name":       params.Name,
		"is_ours":    isOurs,
		"created_by": params.CreatedBy,
	}

	var rows []teams.Team
	if err := r.client.From("teams").Insert(ctx, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert team: empty representation")
	}
	return &rows[0], nil
}

func (r *Teams) List(ctx context.Context) ([]teams.Team, error) {
	rows := []teams.Team{}
	err := r.client.From("teams").Select("*").Order("created_at", true).Get(ctx, &rows)
	return rows, err
}

func (r *Teams) MembershipRole(ctx context.Context, teamID, userID string) (string, bool, error) {
	var row struct {
		Role string `json:"role"`
	}
	found, err := r.client.From("team_members").
		Select("role").
		Eq("team_id", teamID).
		Eq("user_id", userID).
		Maybe(ctx, &row)
	if err != nil {
		return "", false, err
	}
	return row.Role, found, nil
}

func (r *Teams) CreatorOf(ctx context.Context, teamID string) (string, bool, error) {
	var row struct {
		CreatedBy string `json:"created_by"`
	}
	found, err := r.client.From("teams").
		Select("created_by").
		Eq("id", teamID).
		Maybe(ctx, &row)
	if err != nil {
		return "", false, err
	}
	return row.CreatedBy, found, nil
}

// TeamMembers is the privileged roster repository. It must be built
// around the service-role handle and used only behind the
// staff-or-creator check.
type TeamMembers struct {
	client *supabase.Client
}

func NewTeamMembers(client *supabase.Client) *TeamMembers {
	return &TeamMembers{client: client}
}

func (r *TeamMembers) AddMember(ctx context.Context, member teams.Member) (*teams.Member, error) {
	var rows []teams.Member
	err := r.client.From("team_members").Insert(ctx, map[string]any{
		"team_id": member.TeamID,
		"user_id": member.UserID,
		"role":    member.Role,
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &member, nil
	}
	return &rows[0], nil
}

func (r *TeamMembers) RemoveMember(ctx context.Context, teamID, userID string) error {
	return r.client.From("team_members").
		Eq("team_id", teamID).
		Eq("user_id", userID).
		Delete(ctx)
}

func (r *TeamMembers) ListMembers(ctx context.Context, teamID string) ([]teams.Member, error) {
	rows := []teams.Member{}
	err := r.client.From("team_members").
		Select("user_id, role, team_id").
		Eq("team_id", teamID).
		Order("role", false).
		Get(ctx, &rows)
	return rows, err
}
