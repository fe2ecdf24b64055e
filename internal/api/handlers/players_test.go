package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeletePlayer(t *testing.T) {
	server, calls := fakeStore(t, func(r *http.Request) (int, string) {
		return http.StatusNoContent, ``
	})
	clients := storeClients(server.URL)

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/players/p1", nil), clients)
	req.SetPathValue("id", "p1")
	res := httptest.NewRecorder()

	(&PlayersHandler{}).Delete(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, true, decodeBody(t, res)["ok"])
	require.Equal(t, "eq.p1", (*calls)[0].query.Get("id"))
}

func TestListPlayersRequiresTeam(t *testing.T) {
	server, calls := fakeStore(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `[]`
	})
	clients := storeClients(server.URL)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/players", nil), clients)
	res := httptest.NewRecorder()

	(&PlayersHandler{}).List(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Empty(t, *calls)
}

func TestUpdatePlayerWhitelist(t *testing.T) {
	playerRow := `{"id":"p1","team_id":"t1","name":"Ana","number":7,"created_by":"user-1"}`
	server, calls := fakeStore(t, func(r *http.Request) (int, string) {
		if r.Method == http.MethodPatch {
			return http.StatusOK, `[` + playerRow + `]`
		}
		return http.StatusOK, playerRow
	})
	clients := storeClients(server.URL)

	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/players/p1",
		strings.NewReader(`{"number":7,"team_id":"other"}`)), clients)
	req.SetPathValue("id", "p1")
	res := httptest.NewRecorder()

	(&PlayersHandler{}).Update(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, map[string]any{"number": float64(7)}, (*calls)[0].body)
}
