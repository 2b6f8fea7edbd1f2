package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ScoringWeights controls the suitability score used to order candidate
// referees before search; higher-scored referees are tried first. The tier
// step applies per experience tier above VOLUNTEER; performance, reliability
// and punctuality weights scale the normalized attribute (rating/5, value/100);
// GamesOfficiatedCap caps the gamesOfficiated/100 term; the bonus fields add
// flat points.
type ScoringWeights struct {
	ExperienceTierStep      float64 `mapstructure:"experience_tier_step"`
	PerformanceRating       float64 `mapstructure:"performance_rating"`
	Reliability             float64 `mapstructure:"reliability"`
	Punctuality             float64 `mapstructure:"punctuality"`
	GamesOfficiatedCap      float64 `mapstructure:"games_officiated_cap"`
	PreferredVenueBonus     float64 `mapstructure:"preferred_venue_bonus"`
	ExpertDivisionBonus     float64 `mapstructure:"expert_division_bonus"`
	ProficientDivisionBonus float64 `mapstructure:"proficient_division_bonus"`
	FamiliarDivisionBonus   float64 `mapstructure:"familiar_division_bonus"`
}

// EngineConfig holds every tunable of the assignment engine.
type EngineConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`

	// Search budget. Zero deadline means no wall-clock bound.
	MaxBacktracks int64         `mapstructure:"max_backtracks"`
	Deadline      time.Duration `mapstructure:"deadline"`

	// Travel model.
	TravelSpeedMph      float64 `mapstructure:"travel_speed_mph"`
	TravelBufferMinutes int     `mapstructure:"travel_buffer_minutes"`

	// Pay model. Late bonuses apply to assignments made within LateWindow of
	// tip-off; holiday dates use MM-DD form.
	TournamentBonusPct float64       `mapstructure:"tournament_bonus_pct"`
	LateBonusPct       float64       `mapstructure:"late_bonus_pct"`
	HolidayBonusPct    float64       `mapstructure:"holiday_bonus_pct"`
	LateWindow         time.Duration `mapstructure:"late_window"`
	HolidayDates       []string      `mapstructure:"holiday_dates"`

	// Result grading.
	CoverageSuccessThreshold    float64 `mapstructure:"coverage_success_threshold"`
	CoverageSuggestionThreshold float64 `mapstructure:"coverage_suggestion_threshold"`

	Weights ScoringWeights `mapstructure:"weights"`
}

// IsDevelopment reports whether the engine runs in a development environment.
func (c *EngineConfig) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == ""
}

// IsHoliday reports whether t falls on a configured holiday date.
func (c *EngineConfig) IsHoliday(t time.Time) bool {
	key := t.Format("01-02")
	for _, d := range c.HolidayDates {
		if d == key {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_backtracks", 100000)
	v.SetDefault("deadline", "10s")
	v.SetDefault("travel_speed_mph", 30.0)
	v.SetDefault("travel_buffer_minutes", 30)
	v.SetDefault("tournament_bonus_pct", 0.25)
	v.SetDefault("late_bonus_pct", 0.50)
	v.SetDefault("holiday_bonus_pct", 0.50)
	v.SetDefault("late_window", "24h")
	v.SetDefault("holiday_dates", []string{"01-01", "07-04", "11-27", "12-25"})
	v.SetDefault("coverage_success_threshold", 0.9)
	v.SetDefault("coverage_suggestion_threshold", 0.8)
	v.SetDefault("weights.experience_tier_step", 7.5)
	v.SetDefault("weights.performance_rating", 20.0)
	v.SetDefault("weights.reliability", 10.0)
	v.SetDefault("weights.punctuality", 10.0)
	v.SetDefault("weights.games_officiated_cap", 10.0)
	v.SetDefault("weights.preferred_venue_bonus", 10.0)
	v.SetDefault("weights.expert_division_bonus", 10.0)
	v.SetDefault("weights.proficient_division_bonus", 7.0)
	v.SetDefault("weights.familiar_division_bonus", 3.0)
}

// DefaultEngineConfig returns the engine defaults without touching the
// environment or any config file. Library callers usually start here.
func DefaultEngineConfig() *EngineConfig {
	v := viper.New()
	setDefaults(v)
	cfg := &EngineConfig{}
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(cfg)
	return cfg
}

// LoadConfig reads configuration from REF_SCHEDULER_* environment variables
// and an optional YAML file, layered over the defaults.
func LoadConfig(path string) (*EngineConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("REF_SCHEDULER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &EngineConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration ranges.
func (c *EngineConfig) Validate() error {
	if c.MaxBacktracks <= 0 {
		return fmt.Errorf("max_backtracks must be positive, got %d", c.MaxBacktracks)
	}
	if c.TravelSpeedMph <= 0 {
		return fmt.Errorf("travel_speed_mph must be positive, got %f", c.TravelSpeedMph)
	}
	if c.TravelBufferMinutes < 0 {
		return fmt.Errorf("travel_buffer_minutes must not be negative, got %d", c.TravelBufferMinutes)
	}
	if c.CoverageSuccessThreshold < 0 || c.CoverageSuccessThreshold > 1 {
		return fmt.Errorf("coverage_success_threshold must be between 0 and 1, got %f", c.CoverageSuccessThreshold)
	}
	if c.CoverageSuggestionThreshold < 0 || c.CoverageSuggestionThreshold > 1 {
		return fmt.Errorf("coverage_suggestion_threshold must be between 0 and 1, got %f", c.CoverageSuggestionThreshold)
	}
	for _, d := range c.HolidayDates {
		if _, err := time.Parse("01-02", d); err != nil {
			return fmt.Errorf("invalid holiday date %q, want MM-DD: %w", d, err)
		}
	}
	return nil
}
