package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMeWithoutProfile(t *testing.T) {
	server, calls := fakeStore(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `[]`
	})
	clients := storeClients(server.URL)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/me", nil), clients)
	res := httptest.NewRecorder()

	Me(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := decodeBody(t, res)
	require.Equal(t, "user-1", body["user_id"])
	require.Contains(t, body, "profile")
	require.Nil(t, body["profile"])
	require.Equal(t, "Bearer caller-token", (*calls)[0].bearer, "profile lookup runs under the caller's policies")
}

func TestMePassesProfileThrough(t *testing.T) {
	server, _ := fakeStore(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `[{"id":"user-1","display_name":"Sam","locale":"es-MX"}]`
	})
	clients := storeClients(server.URL)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/me", nil), clients)
	res := httptest.NewRecorder()

	Me(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	profile, ok := decodeBody(t, res)["profile"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Sam", profile["display_name"])
}

func TestMeUnauthenticatedContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	res := httptest.NewRecorder()

	Me(res, req)

	require.Equal(t, http.StatusInternalServerError, res.Code)
}
