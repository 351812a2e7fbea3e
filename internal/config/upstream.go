// Package config loads the RapidAPI upstream settings used by the event fetchers.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	pkgconfig "supabox/pkg/config"
)

// Defaults for the two RapidAPI-hosted event APIs.
const (
	DefaultBoxingBaseURL   = "https://boxing-data-api.p.rapidapi.com"
	DefaultBoxingHost      = "boxing-data-api.p.rapidapi.com"
	DefaultMMABaseURL      = "https://mmaapi.p.rapidapi.com"
	DefaultMMAHost         = "mmaapi.p.rapidapi.com"
	DefaultMMATournamentID = 19906

	// ScheduleDateLayout is the format of MMA_SCHEDULE_DATE.
	ScheduleDateLayout = "2006-01-02"
)

// ErrMissingAPIKey is returned when no RapidAPI key is configured.
var ErrMissingAPIKey = errors.New("RAPIDAPI_KEY is required")

// UpstreamConfig holds everything needed to call the event APIs.
type UpstreamConfig struct {
	// APIKey is sent as x-rapidapi-key on every request. Never logged.
	APIKey string `yaml:"-"`

	Boxing BoxingAPIConfig `yaml:"boxing"`
	MMA    MMAAPIConfig    `yaml:"mma"`

	// Timezone is the IANA zone used to render MMA start timestamps
	// and to pick "today" for the MMA schedule.
	Timezone string `yaml:"timezone"`

	// Timeout bounds a single upstream fetch including retries.
	Timeout time.Duration `yaml:"timeout"`

	// RatePerSecond and Burst configure the outbound token bucket shared
	// by both fetchers.
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

// BoxingAPIConfig configures the boxing schedule endpoint.
type BoxingAPIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Host      string `yaml:"host"`
	Days      int    `yaml:"days"`
	PastHours int    `yaml:"past_hours"`
	PageSize  int    `yaml:"page_size"`
}

// MMAAPIConfig configures the MMA tournament schedule endpoint.
type MMAAPIConfig struct {
	BaseURL      string `yaml:"base_url"`
	Host         string `yaml:"host"`
	TournamentID int    `yaml:"tournament_id"`
	// ScheduleDate pins the schedule day (YYYY-MM-DD). Empty means today.
	ScheduleDate string `yaml:"schedule_date"`
}

// DefaultUpstreamConfig returns the configuration used when nothing is set.
func DefaultUpstreamConfig() *UpstreamConfig {
	return &UpstreamConfig{
		Boxing: BoxingAPIConfig{
			BaseURL:   DefaultBoxingBaseURL,
			Host:      DefaultBoxingHost,
			Days:      7,
			PastHours: 12,
			PageSize:  25,
		},
		MMA: MMAAPIConfig{
			BaseURL:      DefaultMMABaseURL,
			Host:         DefaultMMAHost,
			TournamentID: DefaultMMATournamentID,
		},
		Timezone:      "UTC",
		Timeout:       10 * time.Second,
		RatePerSecond: 2,
		Burst:         5,
	}
}

// LoadUpstreamConfig builds the upstream configuration.
//
// Precedence (lowest to highest): defaults, the YAML file named by
// SUPABOX_CONFIG, environment variables. The result is validated and
// must carry an API key.
func LoadUpstreamConfig() (*UpstreamConfig, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUpstreamSettings is LoadUpstreamConfig without the API key
// requirement. The API server uses it so it can start and report itself
// unhealthy until RAPIDAPI_KEY is set.
func LoadUpstreamSettings() (*UpstreamConfig, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load() (*UpstreamConfig, error) {
	cfg := DefaultUpstreamConfig()

	if path := os.Getenv("SUPABOX_CONFIG"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// HasAPIKey reports whether a non-blank RapidAPI key is configured.
func (c *UpstreamConfig) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func (c *UpstreamConfig) applyEnv() {
	c.APIKey = pkgconfig.GetEnvString("RAPIDAPI_KEY", c.APIKey)

	c.Boxing.BaseURL = pkgconfig.GetEnvString("BOXING_API_BASE_URL", c.Boxing.BaseURL)
	c.Boxing.Host = pkgconfig.GetEnvString("BOXING_API_HOST", c.Boxing.Host)
	c.Boxing.Days = pkgconfig.GetEnvInt("BOXING_SCHEDULE_DAYS", c.Boxing.Days)
	c.Boxing.PastHours = pkgconfig.GetEnvInt("BOXING_PAST_HOURS", c.Boxing.PastHours)
	c.Boxing.PageSize = pkgconfig.GetEnvInt("BOXING_PAGE_SIZE", c.Boxing.PageSize)

	c.MMA.BaseURL = pkgconfig.GetEnvString("MMA_API_BASE_URL", c.MMA.BaseURL)
	c.MMA.Host = pkgconfig.GetEnvString("MMA_API_HOST", c.MMA.Host)
	c.MMA.TournamentID = pkgconfig.GetEnvInt("MMA_TOURNAMENT_ID", c.MMA.TournamentID)
	c.MMA.ScheduleDate = pkgconfig.GetEnvString("MMA_SCHEDULE_DATE", c.MMA.ScheduleDate)

	c.Timezone = pkgconfig.GetEnvString("DISPLAY_TIMEZONE", c.Timezone)
	c.Timeout = pkgconfig.GetEnvDuration("UPSTREAM_TIMEOUT", c.Timeout)
	c.RatePerSecond = pkgconfig.GetEnvFloat("UPSTREAM_RATE_PER_SEC", c.RatePerSecond)
	c.Burst = pkgconfig.GetEnvInt("UPSTREAM_BURST", c.Burst)
}

// Validate checks the configuration, API key included, and reports every
// problem at once.
func (c *UpstreamConfig) Validate() error {
	var errs []error
	if !c.HasAPIKey() {
		errs = append(errs, ErrMissingAPIKey)
	}
	errs = append(errs, c.settingsProblems()...)
	return joinProblems(errs)
}

// ValidateSettings checks everything except the API key.
func (c *UpstreamConfig) ValidateSettings() error {
	return joinProblems(c.settingsProblems())
}

func joinProblems(errs []error) error {
	if len(errs) > 0 {
		return fmt.Errorf("upstream configuration invalid: %w", errors.Join(errs...))
	}
	return nil
}

func (c *UpstreamConfig) settingsProblems() []error {
	var errs []error

	if c.Boxing.BaseURL == "" || c.Boxing.Host == "" {
		errs = append(errs, errors.New("boxing base_url and host must be set"))
	}
	if c.Boxing.Days <= 0 {
		errs = append(errs, fmt.Errorf("boxing days must be positive, got %d", c.Boxing.Days))
	}
	if c.Boxing.PastHours < 0 {
		errs = append(errs, fmt.Errorf("boxing past_hours cannot be negative, got %d", c.Boxing.PastHours))
	}
	if c.Boxing.PageSize < 1 || c.Boxing.PageSize > 100 {
		errs = append(errs, fmt.Errorf("boxing page_size must be between 1 and 100, got %d", c.Boxing.PageSize))
	}
	if c.MMA.BaseURL == "" || c.MMA.Host == "" {
		errs = append(errs, errors.New("mma base_url and host must be set"))
	}
	if c.MMA.TournamentID <= 0 {
		errs = append(errs, fmt.Errorf("mma tournament_id must be positive, got %d", c.MMA.TournamentID))
	}
	if c.MMA.ScheduleDate != "" {
		if _, err := time.Parse(ScheduleDateLayout, c.MMA.ScheduleDate); err != nil {
			errs = append(errs, fmt.Errorf("mma schedule_date must be YYYY-MM-DD: %w", err))
		}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}
	if err := pkgconfig.ValidateDurationRange(c.Timeout, time.Second, 2*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("invalid upstream timeout: %w", err))
	}
	if c.RatePerSecond <= 0 {
		errs = append(errs, fmt.Errorf("rate_per_second must be positive, got %v", c.RatePerSecond))
	}
	if c.Burst < 1 {
		errs = append(errs, fmt.Errorf("burst must be at least 1, got %d", c.Burst))
	}
	return errs
}

// Location returns the display timezone. Validate guarantees it loads;
// UTC is returned otherwise.
func (c *UpstreamConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MMAScheduleDay returns the day whose MMA schedule should be fetched:
// the pinned ScheduleDate when set, otherwise now in the display timezone.
func (c *UpstreamConfig) MMAScheduleDay(now time.Time) time.Time {
	loc := c.Location()
	if c.MMA.ScheduleDate != "" {
		if d, err := time.ParseInLocation(ScheduleDateLayout, c.MMA.ScheduleDate, loc); err == nil {
			return d
		}
	}
	return now.In(loc)
}
