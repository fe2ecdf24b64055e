// Package respond writes the gateway's JSON bodies. Errors keep the
// provider-compatible shape {"error", "code"?, "details"?, "hint"?} so
// clients see PostgREST diagnostics verbatim.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matchpoint-app/gateway/internal/supabase"
	"github.com/rs/zerolog"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes a plain error message and logs it with the
// request-scoped logger: client errors at warn, server errors at error.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteError(w, r, status, ErrorBody{Error: message})
}

// Upstream maps a collaborator failure onto the wire: an RLS rejection
// becomes 403, any other provider error is a 400 carrying the
// provider's code/details/hint untouched. Transport-level failures
// (no provider body to pass through) are reported without internals.
func Upstream(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadRequest
		if apiErr.PermissionDenied() {
			status = http.StatusForbidden
		}
		WriteError(w, r, status, ErrorBody{
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
			Hint:    apiErr.Hint,
		})
		return
	}

	logger := zerolog.Ctx(r.Context())
	logger.Error().Err(err).Str("path", r.URL.Path).Msg("upstream request failed")
	WriteError(w, r, http.StatusBadGateway, ErrorBody{Error: "upstream request failed"})
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, body ErrorBody) {
	if r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Str("code", body.Code).
			Msg(body.Error)
	}
	JSON(w, status, body)
}
