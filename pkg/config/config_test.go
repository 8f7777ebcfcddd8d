package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Minute, cfg.InjuryCacheTTL)
	assert.Equal(t, 3*time.Hour, cfg.RosterCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.DvPCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.ExternalAPITimeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CorsOrigins)
	assert.Equal(t, 4, cfg.ComposeWorkers)

	toggles := cfg.PipelineToggles()
	assert.True(t, toggles.Pace)
	assert.True(t, toggles.Vacuum)
	assert.True(t, toggles.Rotation)
	assert.True(t, toggles.Ceiling)
	assert.True(t, toggles.TreatUnknownAsAvailable)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("ENABLE_CEILING", "false")
	t.Setenv("STATS_CACHE_TTL", "45m")
	t.Setenv("COMPOSE_WORKERS", "0")
	t.Setenv("CORS_ORIGINS", "https://courtside.app")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.PipelineToggles().Ceiling)
	assert.Equal(t, 45*time.Minute, cfg.StatsCacheTTL)
	assert.Equal(t, 1, cfg.ComposeWorkers)
	assert.Equal(t, []string{"https://courtside.app"}, cfg.CorsOrigins)
}
