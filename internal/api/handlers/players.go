package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/matchpoint-app/gateway/internal/api/respond"
	"github.com/matchpoint-app/gateway/internal/domain/players"
	"github.com/matchpoint-app/gateway/internal/storage/supastore"
)

type PlayersHandler struct{}

func (h *PlayersHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	var params players.CreateParams
	if !decodeJSON(w, r, &params) {
		return
	}
	params.CreatedBy = principal.UserID

	service := players.NewService(supastore.NewPlayers(clients.Caller), *zerolog.Ctx(r.Context()))
	player, err := service.Create(r.Context(), params)
	if err != nil {
		respondDomain(w, r, err, players.ErrValidation)
		return
	}
	respond.JSON(w, http.StatusCreated, player)
}

func (h *PlayersHandler) List(w http.ResponseWriter, r *http.Request) {
	_, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	service := players.NewService(supastore.NewPlayers(clients.Caller), *zerolog.Ctx(r.Context()))
	list, err := service.ListByTeam(r.Context(), r.URL.Query().Get("team_id"))
	if err != nil {
		respondDomain(w, r, err, players.ErrValidation)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *PlayersHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	var body map[string]any
	if !decodeJSON(w, r, &body) {
		return
	}

	service := players.NewService(supastore.NewPlayers(clients.Caller), *zerolog.Ctx(r.Context()))
	player, err := service.Update(r.Context(), r.PathValue("id"), body)
	if err != nil {
		respondDomain(w, r, err, players.ErrValidation)
		return
	}
	respond.JSON(w, http.StatusOK, player)
}

func (h *PlayersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	service := players.NewService(supastore.NewPlayers(clients.Caller), *zerolog.Ctx(r.Context()))
	if err := service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Upstream(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
