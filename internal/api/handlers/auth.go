package handlers

import (
	"errors"
	"net/http"

	"github.com/matchpoint-app/gateway/internal/api/middleware"
	"github.com/matchpoint-app/gateway/internal/api/respond"
	"github.com/matchpoint-app/gateway/internal/supabase"
)

// AuthHandler proxies the public identity endpoints to the provider.
// Both run on the anon handle; no caller credential exists yet.
type AuthHandler struct {
	Factory *middleware.ClientFactory
}

func NewAuthHandler(factory *middleware.ClientFactory) *AuthHandler {
	return &AuthHandler{Factory: factory}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	// Stored under raw_user_meta_data; the profiles trigger reads the
	// full_name key, so the name must travel under exactly that key.
	var data map[string]any
	if req.FullName != "" {
		data = map[string]any{"full_name": req.FullName}
	}

	result, err := h.Factory.Anon().Auth().SignUp(r.Context(), req.Email, req.Password, data)
	if err != nil {
		respond.Upstream(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	session, err := h.Factory.Anon().Auth().SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		// Any provider rejection on login reads as bad credentials; only
		// transport failures surface differently.
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) {
			respond.Error(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respond.Upstream(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, session)
}
