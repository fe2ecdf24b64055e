package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/matchpoint-app/gateway/internal/api/respond"
	"github.com/matchpoint-app/gateway/internal/domain/events"
	"github.com/matchpoint-app/gateway/internal/storage/supastore"
)

type EventsHandler struct{}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	var params events.CreateParams
	if !decodeJSON(w, r, &params) {
		return
	}
	params.CreatedBy = principal.UserID

	service := events.NewService(supastore.NewEvents(clients.Caller), *zerolog.Ctx(r.Context()))
	event, err := service.Append(r.Context(), params)
	if err != nil {
		respondDomain(w, r, err, events.ErrValidation)
		return
	}
	respond.JSON(w, http.StatusCreated, event)
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	_, clients, ok := requestScope(w, r)
	if !ok {
		return
	}

	params, ok := parseEventQuery(w, r)
	if !ok {
		return
	}

	service := events.NewService(supastore.NewEvents(clients.Caller), *zerolog.Ctx(r.Context()))
	list, err := service.List(r.Context(), params)
	if err != nil {
		respondDomain(w, r, err, events.ErrValidation)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func parseEventQuery(w http.ResponseWriter, r *http.Request) (events.ListParams, bool) {
	query := r.URL.Query()
	params := events.ListParams{SessionID: query.Get("session_id")}

	if raw := query.Get("after"); raw != "" {
		after, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.Error(w, r, http.StatusBadRequest, "after must be an integer")
			return events.ListParams{}, false
		}
		params.After = &after
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(w, r, http.StatusBadRequest, "limit must be an integer")
			return events.ListParams{}, false
		}
		params.Limit = &limit
	}
	return params, true
}
