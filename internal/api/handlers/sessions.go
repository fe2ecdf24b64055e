package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/matchpoint-app/gateway/internal/api/respond"
	"github.com/matchpoint-app/gateway/internal/domain/sessions"
	"github.com/matchpoint-app/gateway/internal/storage/supastore"
)

type SessionsHandler struct{}

func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	var params sessions.CreateParams
	if !decodeJSON(w, r, &params) {
		return
	}
	params.CreatedBy = principal.UserID

	service := sessions.NewService(supastore.NewSessions(clients.Caller), *zerolog.Ctx(r.Context()))
	session, err := service.Create(r.Context(), params)
	if err != nil {
		respondDomain(w, r, err, sessions.ErrValidation)
		return
	}
	respond.JSON(w, http.StatusCreated, session)
}

func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	_, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	service := sessions.NewService(supastore.NewSessions(clients.Caller), *zerolog.Ctx(r.Context()))
	list, err := service.List(r.Context())
	if err != nil {
		respond.Upstream(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *SessionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	var body map[string]any
	if !decodeJSON(w, r, &body) {
		return
	}

	service := sessions.NewService(supastore.NewSessions(clients.Caller), *zerolog.Ctx(r.Context()))
	session, err := service.Update(r.Context(), r.PathValue("id"), body)
	if err != nil {
		respondDomain(w, r, err, sessions.ErrValidation)
		return
	}
	respond.JSON(w, http.StatusOK, session)
}

func (h *SessionsHandler) Score(w http.ResponseWriter, r *http.Request) {
	_, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	service := sessions.NewService(supastore.NewSessions(clients.Caller), *zerolog.Ctx(r.Context()))
	score, err := service.Score(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Upstream(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, score)
}

func (h *SessionsHandler) Boxscore(w http.ResponseWriter, r *http.Request) {
	_, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	service := sessions.NewService(supastore.NewSessions(clients.Caller), *zerolog.Ctx(r.Context()))
	boxscore, err := service.Boxscore(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Upstream(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, boxscore)
}
