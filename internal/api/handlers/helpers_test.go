package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/matchpoint-app/gateway/internal/api/middleware"
	"github.com/matchpoint-app/gateway/internal/auth"
	"github.com/matchpoint-app/gateway/internal/supabase"
)

const (
	testUserID      = "user-1"
	testCallerToken = "caller-token"
)

type upstreamCall struct {
	method string
	path   string
	query  url.Values
	bearer string
	body   map[string]any
}

// fakeStore stands in for the managed store; respond decides each
// answer and every call is recorded with its credential.
func fakeStore(t *testing.T, respond func(r *http.Request) (int, string)) (*httptest.Server, *[]upstreamCall) {
	t.Helper()
	var calls []upstreamCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := upstreamCall{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			bearer: r.Header.Get("Authorization"),
		}
		if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
			_ = json.Unmarshal(raw, &entry.body)
		}
		calls = append(calls, entry)

		status, body := respond(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func storeClients(serverURL string) middleware.Clients {
	anon := supabase.New(serverURL, "anon-key")
	return middleware.Clients{
		Caller: anon.WithToken(testCallerToken),
		Admin:  supabase.New(serverURL, "service-key"),
	}
}

// authedRequest attaches the verified principal and scoped handles the
// authentication middleware would have provided.
func authedRequest(req *http.Request, clients middleware.Clients) *http.Request {
	principal := auth.Principal{UserID: testUserID, AccessToken: testCallerToken}
	return req.WithContext(middleware.ContextWithAuth(req.Context(), principal, clients))
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}
