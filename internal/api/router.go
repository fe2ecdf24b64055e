package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/matchpoint-app/gateway/internal/api/handlers"
	"github.com/matchpoint-app/gateway/internal/api/middleware"
	"github.com/matchpoint-app/gateway/internal/auth"
	"github.com/matchpoint-app/gateway/internal/config"
	"github.com/matchpoint-app/gateway/internal/metrics"
	"github.com/matchpoint-app/gateway/internal/supabase"
)

// NewRouter assembles the full HTTP surface: the two base store clients,
// the token verifier, and the middleware chain around every route.
func NewRouter(cfg config.Config, logger zerolog.Logger) http.Handler {
	anon := supabase.New(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	admin := supabase.New(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey)
	factory := middleware.NewClientFactory(anon, admin)
	verifier := auth.NewVerifier(cfg.Supabase.JWTSecret)

	authHandler := handlers.NewAuthHandler(factory)
	teamsHandler := &handlers.TeamsHandler{}
	sessionsHandler := &handlers.SessionsHandler{}
	eventsHandler := &handlers.EventsHandler{}
	playersHandler := &handlers.PlayersHandler{}

	limit := middleware.RateLimit(cfg.RateLimit)
	protect := middleware.Authenticate(verifier, factory)
	authedTier := middleware.WithRateLimitTierHandler(middleware.TierAuthed)

	public := func(h http.HandlerFunc) http.Handler {
		return limit(h)
	}
	// The tier marker sits outside the limiter so authenticated routes
	// draw from the authed bucket; the limiter runs before token
	// verification so rejected floods never reach the provider.
	authed := func(h http.HandlerFunc) http.Handler {
		return authedTier(limit(protect(h)))
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", http.HandlerFunc(handlers.Healthz))
	mux.Handle("/readyz", http.HandlerFunc(handlers.Readyz))
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/auth/signup", methodMux(map[string]http.Handler{
		http.MethodPost: public(authHandler.Signup),
	}))
	mux.Handle("/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: public(authHandler.Login),
	}))

	mux.Handle("/me", methodMux(map[string]http.Handler{
		http.MethodGet: authed(handlers.Me),
	}))

	mux.Handle("/teams", methodMux(map[string]http.Handler{
		http.MethodGet:  authed(teamsHandler.List),
		http.MethodPost: authed(teamsHandler.Create),
	}))
	mux.Handle("/teams/{id}/members", methodMux(map[string]http.Handler{
		http.MethodGet:  authed(teamsHandler.ListMembers),
		http.MethodPost: authed(teamsHandler.AddMember),
	}))
	mux.Handle("/teams/{id}/members/{uid}", methodMux(map[string]http.Handler{
		http.MethodDelete: authed(teamsHandler.RemoveMember),
	}))

	mux.Handle("/sessions", methodMux(map[string]http.Handler{
		http.MethodGet:  authed(sessionsHandler.List),
		http.MethodPost: authed(sessionsHandler.Create),
	}))
	mux.Handle("/sessions/{id}", methodMux(map[string]http.Handler{
		http.MethodPatch: authed(sessionsHandler.Update),
	}))
	mux.Handle("/sessions/{id}/score", methodMux(map[string]http.Handler{
		http.MethodGet: authed(sessionsHandler.Score),
	}))
	mux.Handle("/sessions/{id}/boxscore", methodMux(map[string]http.Handler{
		http.MethodGet: authed(sessionsHandler.Boxscore),
	}))

	mux.Handle("/events", methodMux(map[string]http.Handler{
		http.MethodGet:  authed(eventsHandler.List),
		http.MethodPost: authed(eventsHandler.Create),
	}))

	mux.Handle("/players", methodMux(map[string]http.Handler{
		http.MethodGet:  authed(playersHandler.List),
		http.MethodPost: authed(playersHandler.Create),
	}))
	mux.Handle("/players/{id}", methodMux(map[string]http.Handler{
		http.MethodPatch:  authed(playersHandler.Update),
		http.MethodDelete: authed(playersHandler.Delete),
	}))

	var handler http.Handler = mux
	handler = middleware.RequestSize(middleware.DefaultMaxBodySize)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
