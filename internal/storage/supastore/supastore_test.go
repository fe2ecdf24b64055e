package supastore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/matchpoint-app/gateway/internal/domain/events"
	"github.com/matchpoint-app/gateway/internal/domain/teams"
	"github.com/matchpoint-app/gateway/internal/supabase"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	values url.Values
	body   map[string]any
}

func newFakeStore(t *testing.T, status int, responseBody string) (*supabase.Client, *[]captured) {
	t.Helper()
	var requests []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := captured{method: r.Method, path: r.URL.Path, values: r.URL.Query()}
		if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
			_ = json.Unmarshal(raw, &entry.body)
		}
		requests = append(requests, entry)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)
	return supabase.New(server.URL, "anon-key"), &requests
}

func TestEventsListBuildsCursorQuery(t *testing.T) {
	client, requests := newFakeStore(t, http.StatusOK,
		`[{"id":"e1","session_id":"s1","team_side":"home","kind":"serve","event_seq":6,"meta":{}}]`)
	repo := NewEvents(client)

	after := int64(5)
	limit := 500
	rows, err := repo.List(context.Background(), events.ListParams{SessionID: "s1", After: &after, Limit: &limit})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(6), rows[0].EventSeq)

	values := (*requests)[0].values
	require.Equal(t, "/rest/v1/events", (*requests)[0].path)
	require.Equal(t, "eq.s1", values.Get("session_id"))
	require.Equal(t, "gt.5", values.Get("event_seq"))
	require.Equal(t, "event_seq.asc", values.Get("order"))
	require.Equal(t, "500", values.Get("limit"))
}

func TestEventsListWithoutCursorOmitsFilter(t *testing.T) {
	client, requests := newFakeStore(t, http.StatusOK, `[]`)
	repo := NewEvents(client)

	limit := 100
	_, err := repo.List(context.Background(), events.ListParams{SessionID: "s1", Limit: &limit})
	require.NoError(t, err)
	require.Empty(t, (*requests)[0].values.Get("event_seq"))
}

func TestEventsInsertOmitsUnsetOptionals(t *testing.T) {
	client, requests := newFakeStore(t, http.StatusCreated,
		`[{"id":"e1","session_id":"s1","team_side":"home","kind":"serve","event_seq":1,"meta":{}}]`)
	repo := NewEvents(client)

	event, err := repo.Insert(context.Background(), events.CreateParams{
		SessionID: "s1",
		TeamSide:  "home",
		Kind:      "serve",
		Meta:      map[string]any{},
		CreatedBy: "u1",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), event.EventSeq)

	body := (*requests)[0].body
	require.Equal(t, "u1", body["created_by"])
	require.NotContains(t, body, "player_id")
	require.NotContains(t, body, "set_no")
	require.Contains(t, body, "meta")
}

func TestTeamsMembershipRoleAbsent(t *testing.T) {
	client, requests := newFakeStore(t, http.StatusOK, `[]`)
	repo := NewTeams(client)

	role, found, err := repo.MembershipRole(context.Background(), "t1", "u1")
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, role)

	values := (*requests)[0].values
	require.Equal(t, "eq.t1", values.Get("team_id"))
	require.Equal(t, "eq.u1", values.Get("user_id"))
	require.Equal(t, "role", values.Get("select"))
}

func TestTeamsCreatorOf(t *testing.T) {
	client, _ := newFakeStore(t, http.StatusOK, `[{"created_by":"u1"}]`)
	repo := NewTeams(client)

	creator, found, err := repo.CreatorOf(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "u1", creator)
}

func TestTeamsCreateDefaultsIsOurs(t *testing.T) {
	client, requests := newFakeStore(t, http.StatusCreated,
		`[{"id":"t1","name":"Lobos","is_ours":true,"created_by":"u1","created_at":"2026-01-10T12:00:00+00:00"}]`)
	repo := NewTeams(client)

	team, err := repo.Create(context.Background(), teams.CreateParams{Name: "Lobos", CreatedBy: "u1"})
	require.NoError(t, err)
	require.Equal(t, "t1", team.ID)
	require.Equal(t, true, (*requests)[0].body["is_ours"])
}

func TestTeamMembersRemove(t *testing.T) {
	client, requests := newFakeStore(t, http.StatusNoContent, ``)
	repo := NewTeamMembers(client)

	require.NoError(t, repo.RemoveMember(context.Background(), "t1", "u2"))
	got := (*requests)[0]
	require.Equal(t, http.MethodDelete, got.method)
	require.Equal(t, "eq.t1", got.values.Get("team_id"))
	require.Equal(t, "eq.u2", got.values.Get("user_id"))
}

func TestSessionsScoreCallsRpc(t *testing.T) {
	client, requests := newFakeStore(t, http.StatusOK, `{"home_sets":2,"away_sets":0}`)
	repo := NewSessions(client)

	raw, err := repo.Score(context.Background(), "s1")
	require.NoError(t, err)
	require.JSONEq(t, `{"home_sets":2,"away_sets":0}`, string(raw))

	got := (*requests)[0]
	require.Equal(t, "/rest/v1/rpc/session_score", got.path)
	require.Equal(t, "s1", got.body["p_session_id"])
}

func TestPlayersListOrdersByNumber(t *testing.T) {
	client, requests := newFakeStore(t, http.StatusOK, `[]`)
	repo := NewPlayers(client)

	_, err := repo.ListByTeam(context.Background(), "t1")
	require.NoError(t, err)
	require.Equal(t, "number.asc", (*requests)[0].values.Get("order"))
}

func TestProfilesByIDAbsent(t *testing.T) {
	client, _ := newFakeStore(t, http.StatusOK, `[]`)
	repo := NewProfiles(client)

	profile, found, err := repo.ByID(context.Background(), "u1")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, profile)
}
