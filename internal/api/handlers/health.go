package handlers

import (
	"net/http"

	"github.com/matchpoint-app/gateway/internal/api/respond"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func Readyz(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
