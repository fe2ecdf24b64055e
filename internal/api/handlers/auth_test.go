package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matchpoint-app/gateway/internal/api/middleware"
	"github.com/matchpoint-app/gateway/internal/supabase"
	"github.com/stretchr/testify/require"
)

func authFactory(serverURL string) *middleware.ClientFactory {
	return middleware.NewClientFactory(
		supabase.New(serverURL, "anon-key"),
		supabase.New(serverURL, "service-key"),
	)
}

func TestSignupRequiresCredentials(t *testing.T) {
	server, calls := fakeStore(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})
	handler := NewAuthHandler(authFactory(server.URL))

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(`{"email":"a@b.c"}`))
	res := httptest.NewRecorder()

	handler.Signup(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Empty(t, *calls)
}

func TestSignupForwardsMetadata(t *testing.T) {
	server, calls := fakeStore(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"id":"u1","email":"a@b.c"}`
	})
	handler := NewAuthHandler(authFactory(server.URL))

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"a@b.c","password":"secret","full_name":"Sam Rivera"}`))
	res := httptest.NewRecorder()

	handler.Signup(res, req)

	require.Equal(t, http.StatusCreated, res.Code)
	call := (*calls)[0]
	require.Equal(t, "/auth/v1/signup", call.path)
	require.Equal(t, "Bearer anon-key", call.bearer)
	data, ok := call.body["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Sam Rivera", data["full_name"], "metadata key feeds the profiles trigger")
}

func TestLoginRejectionMapsTo401(t *testing.T) {
	server, _ := fakeStore(t, func(r *http.Request) (int, string) {
		return http.StatusBadRequest, `{"error_description":"Invalid login credentials"}`
	})
	handler := NewAuthHandler(authFactory(server.URL))

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@b.c","password":"wrong"}`))
	res := httptest.NewRecorder()

	handler.Login(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Equal(t, "invalid credentials", decodeBody(t, res)["error"])
}

func TestLoginReturnsSession(t *testing.T) {
	server, calls := fakeStore(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"access_token":"jwt","refresh_token":"refresh","token_type":"bearer","expires_in":3600,"user":{"id":"u1"}}`
	})
	handler := NewAuthHandler(authFactory(server.URL))

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@b.c","password":"right"}`))
	res := httptest.NewRecorder()

	handler.Login(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := decodeBody(t, res)
	require.Equal(t, "jwt", body["access_token"])
	require.Equal(t, "refresh", body["refresh_token"])

	call := (*calls)[0]
	require.Equal(t, "/auth/v1/token", call.path)
	require.Equal(t, "password", call.query.Get("grant_type"))
}
