package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/errors"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/gate"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/sizing"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/tier"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/transition"
)

// Config holds everything needed to construct an engine. All policy
// knobs are exposed here so deployments can tune thresholds without a
// rebuild.
type Config struct {
	InitialCapital float64          `json:"initial_capital"`
	StartTier      string           `json:"start_tier"`
	HistoryLimit   int              `json:"history_limit"`
	EnableMetrics  bool             `json:"enable_metrics"`
	Sizing         sizing.Params    `json:"sizing"`
	Gate           gate.Params      `json:"gate"`
	Transition     TransitionConfig `json:"transition"`
}

// TransitionConfig is the JSON-friendly form of the transition policy;
// the growth window is expressed in days.
type TransitionConfig struct {
	MinHistory       int     `json:"min_history"`
	RecentWindow     int     `json:"recent_window"`
	GrowthWindowDays int     `json:"growth_window_days"`
	PromoteWinRate   float64 `json:"promote_win_rate"`
	PromoteGrowth    float64 `json:"promote_growth"`
	PromoteWinStreak int     `json:"promote_win_streak"`
	DemoteWinRate    float64 `json:"demote_win_rate"`
	DemoteLossStreak int     `json:"demote_loss_streak"`
	DemoteDailyFrac  float64 `json:"demote_daily_frac"`
}

// DefaultConfig returns the shipped engine configuration.
func DefaultConfig(initialCapital float64) Config {
	policy := transition.DefaultPolicy()
	return Config{
		InitialCapital: initialCapital,
		StartTier:      tier.Turtle.String(),
		HistoryLimit:   100,
		EnableMetrics:  true,
		Sizing:         sizing.DefaultParams(),
		Gate:           gate.DefaultParams(),
		Transition: TransitionConfig{
			MinHistory:       policy.MinHistory,
			RecentWindow:     policy.RecentWindow,
			GrowthWindowDays: int(policy.GrowthWindow / (24 * time.Hour)),
			PromoteWinRate:   policy.PromoteWinRate,
			PromoteGrowth:    policy.PromoteGrowth,
			PromoteWinStreak: policy.PromoteWinStreak,
			DemoteWinRate:    policy.DemoteWinRate,
			DemoteLossStreak: policy.DemoteLossStreak,
			DemoteDailyFrac:  policy.DemoteDailyFrac,
		},
	}
}

// LoadConfig reads a JSON config file over the defaults. Fields absent
// from the file keep their default values.
func LoadConfig(path string, initialCapital float64) (Config, error) {
	cfg := DefaultConfig(initialCapital)

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WrapError(err, errors.ErrorCategoryConfiguration, "engine", "LoadConfig")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.WrapError(err, errors.ErrorCategoryConfiguration, "engine", "LoadConfig")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for construction-time errors.
func (c Config) Validate() error {
	if c.InitialCapital <= 0 {
		return errors.NewConfigurationError("engine", "Validate",
			fmt.Sprintf("initial capital must be positive, got %.4f", c.InitialCapital))
	}
	if _, err := tier.ParseLevel(c.StartTier); err != nil {
		return errors.NewConfigurationError("engine", "Validate",
			fmt.Sprintf("unrecognized start tier %q", c.StartTier))
	}
	if c.Sizing.FeeRate <= 0 || c.Gate.FeeRate <= 0 {
		return errors.NewConfigurationError("engine", "Validate", "fee rate must be positive")
	}
	if c.Sizing.CapitalCeilingFrac <= 0 || c.Sizing.CapitalCeilingFrac > 1 {
		return errors.NewConfigurationError("engine", "Validate",
			fmt.Sprintf("capital ceiling fraction %.4f outside (0,1]", c.Sizing.CapitalCeilingFrac))
	}
	if c.Transition.RecentWindow <= 0 || c.Transition.GrowthWindowDays <= 0 {
		return errors.NewConfigurationError("engine", "Validate", "transition windows must be positive")
	}
	return nil
}

// transitionPolicy converts the JSON-friendly transition config into
// the controller's policy form.
func (c Config) transitionPolicy() transition.Policy {
	return transition.Policy{
		MinHistory:       c.Transition.MinHistory,
		RecentWindow:     c.Transition.RecentWindow,
		GrowthWindow:     time.Duration(c.Transition.GrowthWindowDays) * 24 * time.Hour,
		PromoteWinRate:   c.Transition.PromoteWinRate,
		PromoteGrowth:    c.Transition.PromoteGrowth,
		PromoteWinStreak: c.Transition.PromoteWinStreak,
		DemoteWinRate:    c.Transition.DemoteWinRate,
		DemoteLossStreak: c.Transition.DemoteLossStreak,
		DemoteDailyFrac:  c.Transition.DemoteDailyFrac,
	}
}
