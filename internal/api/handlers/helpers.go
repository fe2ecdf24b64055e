// Package handlers contains the HTTP surface. Handlers are thin: decode,
// pull the request's principal and scoped query handles from the
// context, call the domain service, map the result.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matchpoint-app/gateway/internal/api/middleware"
	"github.com/matchpoint-app/gateway/internal/api/respond"
	"github.com/matchpoint-app/gateway/internal/auth"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// requestScope fetches the principal and query handles attached by the
// authentication middleware. Absence means a wiring bug, not a client
// error.
func requestScope(w http.ResponseWriter, r *http.Request) (auth.Principal, middleware.Clients, bool) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusInternalServerError, "request not authenticated")
		return auth.Principal{}, middleware.Clients{}, false
	}
	clients, ok := middleware.ClientsFrom(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusInternalServerError, "request not authenticated")
		return auth.Principal{}, middleware.Clients{}, false
	}
	return principal, clients, true
}

// respondDomain maps a service failure: the package's validation
// sentinel becomes a 400, anything else is an upstream failure.
func respondDomain(w http.ResponseWriter, r *http.Request, err, validation error) {
	if errors.Is(err, validation) {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	respond.Upstream(w, r, err)
}
