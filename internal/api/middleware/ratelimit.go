package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/matchpoint-app/gateway/internal/config"
	"golang.org/x/time/rate"
)

type RateLimitTier string

const (
	TierPublic RateLimitTier = "public"
	TierAuthed RateLimitTier = "authed"
)

const rateLimitTierKey contextKey = "rateLimitTier"

// WithRateLimitTierHandler marks the routes behind it with a tier; the
// RateLimit middleware picks the matching bucket.
func WithRateLimitTierHandler(tier RateLimitTier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), rateLimitTierKey, tier)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	store := &limiterStore{
		limits: map[RateLimitTier]int{
			TierPublic: cfg.PublicPerMinute,
			TierAuthed: cfg.AuthedPerMinute,
		},
		limiters: map[string]*rate.Limiter{},
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			tier := TierPublic
			if value, ok := r.Context().Value(rateLimitTierKey).(RateLimitTier); ok {
				tier = value
			}

			limiter := store.limiter(tier, clientKey(r))
			if limiter != nil && !limiter.Allow() {
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type limiterStore struct {
	mu       sync.Mutex
	limits   map[RateLimitTier]int
	limiters map[string]*rate.Limiter
}

// limiter returns the bucket for (tier, client), creating it on first
// sight. A non-positive per-minute limit disables the tier.
func (s *limiterStore) limiter(tier RateLimitTier, client string) *rate.Limiter {
	perMinute := s.limits[tier]
	if perMinute <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := string(tier) + ":" + client
	if limiter, ok := s.limiters[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
	s.limiters[key] = limiter
	return limiter
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
