package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearUpstreamEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SUPABOX_CONFIG", "RAPIDAPI_KEY",
		"BOXING_API_BASE_URL", "BOXING_API_HOST", "BOXING_SCHEDULE_DAYS", "BOXING_PAST_HOURS", "BOXING_PAGE_SIZE",
		"MMA_API_BASE_URL", "MMA_API_HOST", "MMA_TOURNAMENT_ID", "MMA_SCHEDULE_DATE",
		"DISPLAY_TIMEZONE", "UPSTREAM_TIMEOUT", "UPSTREAM_RATE_PER_SEC", "UPSTREAM_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadUpstreamConfig_Defaults(t *testing.T) {
	clearUpstreamEnvVars(t)
	t.Setenv("RAPIDAPI_KEY", "test-key")

	cfg, err := LoadUpstreamConfig()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, DefaultBoxingBaseURL, cfg.Boxing.BaseURL)
	assert.Equal(t, DefaultBoxingHost, cfg.Boxing.Host)
	assert.Equal(t, 7, cfg.Boxing.Days)
	assert.Equal(t, 12, cfg.Boxing.PastHours)
	assert.Equal(t, 25, cfg.Boxing.PageSize)
	assert.Equal(t, DefaultMMABaseURL, cfg.MMA.BaseURL)
	assert.Equal(t, DefaultMMAHost, cfg.MMA.Host)
	assert.Equal(t, 19906, cfg.MMA.TournamentID)
	assert.Empty(t, cfg.MMA.ScheduleDate)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 2.0, cfg.RatePerSecond)
	assert.Equal(t, 5, cfg.Burst)
}

func TestLoadUpstreamConfig_MissingAPIKey(t *testing.T) {
	clearUpstreamEnvVars(t)

	_, err := LoadUpstreamConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadUpstreamSettings_AllowsMissingAPIKey(t *testing.T) {
	clearUpstreamEnvVars(t)

	cfg, err := LoadUpstreamSettings()
	require.NoError(t, err)
	assert.False(t, cfg.HasAPIKey())
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)
}

func TestLoadUpstreamSettings_RejectsInvalidSettings(t *testing.T) {
	clearUpstreamEnvVars(t)
	t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus")

	_, err := LoadUpstreamSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
	assert.NotErrorIs(t, err, ErrMissingAPIKey)
}

func TestUpstreamConfig_HasAPIKey(t *testing.T) {
	cfg := DefaultUpstreamConfig()
	assert.False(t, cfg.HasAPIKey())
	cfg.APIKey = "   "
	assert.False(t, cfg.HasAPIKey())
	cfg.APIKey = "test-key"
	assert.True(t, cfg.HasAPIKey())
}

func TestLoadUpstreamConfig_EnvOverrides(t *testing.T) {
	clearUpstreamEnvVars(t)
	t.Setenv("RAPIDAPI_KEY", "test-key")
	t.Setenv("BOXING_PAGE_SIZE", "50")
	t.Setenv("MMA_TOURNAMENT_ID", "7")
	t.Setenv("MMA_SCHEDULE_DATE", "2024-09-15")
	t.Setenv("DISPLAY_TIMEZONE", "America/New_York")
	t.Setenv("UPSTREAM_TIMEOUT", "20s")

	cfg, err := LoadUpstreamConfig()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Boxing.PageSize)
	assert.Equal(t, 7, cfg.MMA.TournamentID)
	assert.Equal(t, "2024-09-15", cfg.MMA.ScheduleDate)
	assert.Equal(t, "America/New_York", cfg.Location().String())
	assert.Equal(t, 20*time.Second, cfg.Timeout)
}

func TestLoadUpstreamConfig_YAMLFile(t *testing.T) {
	clearUpstreamEnvVars(t)

	path := filepath.Join(t.TempDir(), "supabox.yaml")
	yamlBody := `upstream:
  timezone: Asia/Tokyo
  timeout: 15s
  boxing:
    page_size: 40
  mma:
    tournament_id: 1234
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("SUPABOX_CONFIG", path)
	t.Setenv("RAPIDAPI_KEY", "test-key")
	t.Setenv("MMA_TOURNAMENT_ID", "99")

	cfg, err := LoadUpstreamConfig()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 40, cfg.Boxing.PageSize)
	assert.Equal(t, DefaultBoxingHost, cfg.Boxing.Host, "keys absent from the file keep defaults")
	assert.Equal(t, 99, cfg.MMA.TournamentID, "environment wins over the file")
}

func TestLoadUpstreamConfig_MissingFile(t *testing.T) {
	clearUpstreamEnvVars(t)
	t.Setenv("RAPIDAPI_KEY", "test-key")
	t.Setenv("SUPABOX_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadUpstreamConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestUpstreamConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*UpstreamConfig)
		wantMsg string
	}{
		{name: "bad page size", mutate: func(c *UpstreamConfig) { c.Boxing.PageSize = 0 }, wantMsg: "page_size"},
		{name: "bad days", mutate: func(c *UpstreamConfig) { c.Boxing.Days = 0 }, wantMsg: "days"},
		{name: "bad tournament", mutate: func(c *UpstreamConfig) { c.MMA.TournamentID = -1 }, wantMsg: "tournament_id"},
		{name: "bad schedule date", mutate: func(c *UpstreamConfig) { c.MMA.ScheduleDate = "15/9/2024" }, wantMsg: "schedule_date"},
		{name: "bad timezone", mutate: func(c *UpstreamConfig) { c.Timezone = "Mars/Olympus" }, wantMsg: "timezone"},
		{name: "timeout too short", mutate: func(c *UpstreamConfig) { c.Timeout = time.Millisecond }, wantMsg: "timeout"},
		{name: "bad rate", mutate: func(c *UpstreamConfig) { c.RatePerSecond = 0 }, wantMsg: "rate_per_second"},
		{name: "bad burst", mutate: func(c *UpstreamConfig) { c.Burst = 0 }, wantMsg: "burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultUpstreamConfig()
			cfg.APIKey = "test-key"
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestUpstreamConfig_MMAScheduleDay(t *testing.T) {
	now := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)

	t.Run("today in display timezone", func(t *testing.T) {
		cfg := DefaultUpstreamConfig()
		cfg.Timezone = "Asia/Tokyo"

		day := cfg.MMAScheduleDay(now)
		assert.Equal(t, 2, day.Day(), "23:30 UTC is already the next day in Tokyo")
		assert.Equal(t, time.March, day.Month())
	})

	t.Run("pinned date", func(t *testing.T) {
		cfg := DefaultUpstreamConfig()
		cfg.MMA.ScheduleDate = "2024-09-15"

		day := cfg.MMAScheduleDay(now)
		assert.Equal(t, 2024, day.Year())
		assert.Equal(t, time.September, day.Month())
		assert.Equal(t, 15, day.Day())
	})
}
