package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setSupabaseEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")
	t.Setenv("SUPABASE_JWT_SECRET", "jwt-secret")
}

func TestLoadDefaults(t *testing.T) {
	setSupabaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, 60, cfg.RateLimit.PublicPerMinute)
	require.Equal(t, 300, cfg.RateLimit.AuthedPerMinute)
	require.Equal(t, "development", cfg.Environment)
}

func TestLoadTrimsTrailingSlash(t *testing.T) {
	setSupabaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://project.supabase.co", cfg.Supabase.URL)
}

func TestLoadRequiresSupabaseSettings(t *testing.T) {
	keys := []string{
		"SUPABASE_URL",
		"SUPABASE_ANON_KEY",
		"SUPABASE_SERVICE_ROLE_KEY",
		"SUPABASE_JWT_SECRET",
	}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			setSupabaseEnv(t)
			t.Setenv(key, "")

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setSupabaseEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_PUBLIC", "10")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 10, cfg.RateLimit.PublicPerMinute)
	require.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadIgnoresBadInts(t *testing.T) {
	setSupabaseEnv(t)
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
}
