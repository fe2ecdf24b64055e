package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/matchpoint-app/gateway/internal/api/respond"
	"github.com/matchpoint-app/gateway/internal/storage/supastore"
)

type meResponse struct {
	UserID  string          `json:"user_id"`
	Profile json.RawMessage `json:"profile"`
}

// Me returns the caller's identity and their profile row, if one
// exists. A missing profile is part of the normal response shape, not
// an error.
func Me(w http.ResponseWriter, r *http.Request) {
	principal, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	profile, found, err := supastore.NewProfiles(clients.Caller).ByID(r.Context(), principal.UserID)
	if err != nil {
		respond.Upstream(w, r, err)
		return
	}

	body := meResponse{UserID: principal.UserID}
	if found {
		body.Profile = profile
	}
	respond.JSON(w, http.StatusOK, body)
}
