package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/papapumpkin/triage/internal/engine"
	"github.com/papapumpkin/triage/internal/priority"
	"github.com/papapumpkin/triage/internal/quadrant"
)

// WeightsConfig holds the relative factor weights.
type WeightsConfig struct {
	Urgency    float64 `mapstructure:"urgency"`
	Importance float64 `mapstructure:"importance"`
	Effort     float64 `mapstructure:"effort"`
	Graph      float64 `mapstructure:"graph"`
}

// ScoringConfig holds the scoring curve parameters.
type ScoringConfig struct {
	Weights             WeightsConfig `mapstructure:"weights"`
	UrgencyFloor        float64       `mapstructure:"urgency_floor"`
	UrgencyHalfLifeDays float64       `mapstructure:"urgency_half_life_days"`
	EffortCeilingHours  float64       `mapstructure:"effort_ceiling_hours"`
	QuickWinHours       float64       `mapstructure:"quick_win_hours"`
	CyclePenalty        int           `mapstructure:"cycle_penalty"`
}

// ThresholdsConfig holds classification and display cutoffs.
type ThresholdsConfig struct {
	UrgentDays   int `mapstructure:"urgent_days"`
	ImportantMin int `mapstructure:"important_min"`
	HighScore    int `mapstructure:"high_score"`
	MediumScore  int `mapstructure:"medium_score"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config holds all runtime configuration.
// Values are populated from .triage.yaml, TRIAGE_* env vars, and CLI flags.
type Config struct {
	Scoring      ScoringConfig    `mapstructure:"scoring"`
	Thresholds   ThresholdsConfig `mapstructure:"thresholds"`
	Server       ServerConfig     `mapstructure:"server"`
	SuggestCount int              `mapstructure:"suggest_count"`
	Log          LogConfig        `mapstructure:"log"`
	Verbose      bool             `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, and validates the
// result.
func Load() (Config, error) {
	scoring := priority.DefaultOptions()
	th := quadrant.DefaultThresholds()

	viper.SetDefault("scoring.weights.urgency", scoring.Weights.Urgency)
	viper.SetDefault("scoring.weights.importance", scoring.Weights.Importance)
	viper.SetDefault("scoring.weights.effort", scoring.Weights.Effort)
	viper.SetDefault("scoring.weights.graph", scoring.Weights.Graph)
	viper.SetDefault("scoring.urgency_floor", scoring.UrgencyFloor)
	viper.SetDefault("scoring.urgency_half_life_days", scoring.UrgencyHalfLifeDays)
	viper.SetDefault("scoring.effort_ceiling_hours", scoring.EffortCeilingHours)
	viper.SetDefault("scoring.quick_win_hours", scoring.QuickWinHours)
	viper.SetDefault("scoring.cycle_penalty", scoring.CyclePenalty)
	viper.SetDefault("thresholds.urgent_days", th.UrgentDays)
	viper.SetDefault("thresholds.important_min", th.ImportantMin)
	viper.SetDefault("thresholds.high_score", 80)
	viper.SetDefault("thresholds.medium_score", 50)
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("server.max_body_bytes", 1<<20)
	viper.SetDefault("suggest_count", 3)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if err := c.ScoringOptions().Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	th := c.Thresholds
	if th.UrgentDays < 0 {
		return fmt.Errorf("thresholds.urgent_days %d must not be negative", th.UrgentDays)
	}
	if th.ImportantMin < 0 || th.ImportantMin > 10 {
		return fmt.Errorf("thresholds.important_min %d must be in [0, 10]", th.ImportantMin)
	}
	if th.MediumScore < 0 || th.HighScore > 100 || th.MediumScore >= th.HighScore {
		return fmt.Errorf("thresholds: need 0 <= medium_score (%d) < high_score (%d) <= 100", th.MediumScore, th.HighScore)
	}
	if c.SuggestCount < 1 {
		return fmt.Errorf("suggest_count %d must be at least 1", c.SuggestCount)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes %d must be positive", c.Server.MaxBodyBytes)
	}
	return nil
}

// ScoringOptions converts the scoring section into scorer options.
func (c Config) ScoringOptions() priority.Options {
	s := c.Scoring
	return priority.Options{
		Weights: priority.Weights{
			Urgency:    s.Weights.Urgency,
			Importance: s.Weights.Importance,
			Effort:     s.Weights.Effort,
			Graph:      s.Weights.Graph,
		},
		UrgencyFloor:        s.UrgencyFloor,
		UrgencyHalfLifeDays: s.UrgencyHalfLifeDays,
		EffortCeilingHours:  s.EffortCeilingHours,
		QuickWinHours:       s.QuickWinHours,
		CyclePenalty:        s.CyclePenalty,
		HighImportance:      c.Thresholds.ImportantMin,
	}
}

// QuadrantThresholds returns the classifier cutoffs.
func (c Config) QuadrantThresholds() quadrant.Thresholds {
	return quadrant.Thresholds{
		UrgentDays:   c.Thresholds.UrgentDays,
		ImportantMin: c.Thresholds.ImportantMin,
	}
}

// EngineOptions assembles analyzer options. The caller attaches a logger.
func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		Scoring:    c.ScoringOptions(),
		Thresholds: c.QuadrantThresholds(),
	}
}
