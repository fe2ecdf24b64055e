package middleware

import (
	"context"
	"net/http"

	"github.com/matchpoint-app/gateway/internal/api/respond"
	"github.com/matchpoint-app/gateway/internal/auth"
	"github.com/matchpoint-app/gateway/internal/supabase"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	clientsKey   contextKey = "clients"
)

// Clients are the two query handles of one request. Caller runs under
// the caller's RLS policies; Admin bypasses them and must only be used
// behind an explicit authorization check.
type Clients struct {
	Caller *supabase.Client
	Admin  *supabase.Client
}

// ClientFactory derives request-scoped handles from two immutable base
// clients. Attaching a caller token always produces a fresh copy, so a
// handle can never carry another request's authorization context.
type ClientFactory struct {
	anon  *supabase.Client
	admin *supabase.Client
}

func NewClientFactory(anon, admin *supabase.Client) *ClientFactory {
	return &ClientFactory{anon: anon, admin: admin}
}

// Anon returns the unauthenticated base client used by the public auth
// endpoints.
func (f *ClientFactory) Anon() *supabase.Client {
	return f.anon
}

// ForRequest builds the two handles for one request. An empty token
// leaves the caller handle on the anon key.
func (f *ClientFactory) ForRequest(token string) Clients {
	caller := f.anon
	if token != "" {
		caller = f.anon.WithToken(token)
	}
	return Clients{Caller: caller, Admin: f.admin}
}

// Authenticate extracts and verifies the bearer credential and attaches
// the principal plus the scoped handles to the request context. The
// caller handle carries the raw credential before verification runs, so
// the delegated verification path and all downstream queries present
// the same identity to the store.
func Authenticate(verifier *auth.Verifier, factory *ClientFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, "missing bearer token")
				return
			}

			clients := factory.ForRequest(token)
			principal, err := verifier.Verify(r.Context(), token, clients.Caller.Auth())
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			ctx = context.WithValue(ctx, clientsKey, clients)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the verified principal of the request.
func PrincipalFrom(ctx context.Context) (auth.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(auth.Principal)
	return principal, ok
}

// ClientsFrom returns the request's scoped query handles.
func ClientsFrom(ctx context.Context) (Clients, bool) {
	clients, ok := ctx.Value(clientsKey).(Clients)
	return clients, ok
}

// ContextWithAuth attaches a principal and handles to a context.
// Exported for handler tests.
func ContextWithAuth(ctx context.Context, principal auth.Principal, clients Clients) context.Context {
	ctx = context.WithValue(ctx, principalKey, principal)
	return context.WithValue(ctx, clientsKey, clients)
}
