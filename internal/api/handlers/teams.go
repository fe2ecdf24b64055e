package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/matchpoint-app/gateway/internal/api/middleware"
	"github.com/matchpoint-app/gateway/internal/api/respond"
	"github.com/matchpoint-app/gateway/internal/domain/teams"
	"github.com/matchpoint-app/gateway/internal/storage/supastore"
)

type TeamsHandler struct{}

func (h *TeamsHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	var params teams.CreateParams
	if !decodeJSON(w, r, &params) {
		return
	}
	params.CreatedBy = principal.UserID

	service := teams.NewService(supastore.NewTeams(clients.Caller), *zerolog.Ctx(r.Context()))
	team, err := service.Create(r.Context(), params)
	if err != nil {
		respondDomain(w, r, err, teams.ErrValidation)
		return
	}
	respond.JSON(w, http.StatusCreated, team)
}

func (h *TeamsHandler) List(w http.ResponseWriter, r *http.Request) {
	_, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	service := teams.NewService(supastore.NewTeams(clients.Caller), *zerolog.Ctx(r.Context()))
	list, err := service.List(r.Context())
	if err != nil {
		respond.Upstream(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// authorizeStaff runs the staff-or-creator check on the caller's
// handle. Only a pass unlocks the privileged roster repository; every
// other outcome, including lookup failure, denies.
func authorizeStaff(w http.ResponseWriter, r *http.Request, clients middleware.Clients, teamID, userID string) bool {
	allowed, err := teams.IsStaffOrCreator(r.Context(), supastore.NewTeams(clients.Caller), teamID, userID)
	if err != nil {
		respond.Upstream(w, r, err)
		return false
	}
	if !allowed {
		respond.Error(w, r, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

func (h *TeamsHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	principal, clients, ok := requestScope(w, r)
	if !ok {
		return
	}
	teamID := r.PathValue("id")
	if !authorizeStaff(w, r, clients, teamID, principal.UserID) {
		return
	}

	members, err := supastore.NewTeamMembers(clients.Admin).ListMembers(r.Context(), teamID)
	if err != nil {
		respond.Upstream(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, members)
}

type addMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (h *TeamsHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	principal, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	var req addMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// Malformed input is reported before authorization is consulted.
	if req.UserID == "" {
		respond.Error(w, r, http.StatusBadRequest, "user_id is required")
		return
	}

	teamID := r.PathValue("id")
	if !authorizeStaff(w, r, clients, teamID, principal.UserID) {
		return
	}

	service := teams.NewService(supastore.NewTeams(clients.Caller), *zerolog.Ctx(r.Context()))
	member, err := service.AddMember(r.Context(), supastore.NewTeamMembers(clients.Admin), teams.AddMemberParams{
		TeamID: teamID,
		UserID: req.UserID,
		Role:   req.Role,
	})
	if err != nil {
		respondDomain(w, r, err, teams.ErrValidation)
		return
	}
	respond.JSON(w, http.StatusCreated, member)
}

func (h *TeamsHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	principal, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	teamID := r.PathValue("id")
	if !authorizeStaff(w, r, clients, teamID, principal.UserID) {
		return
	}

	if err := supastore.NewTeamMembers(clients.Admin).RemoveMember(r.Context(), teamID, r.PathValue("uid")); err != nil {
		respond.Upstream(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
