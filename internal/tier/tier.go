package tier

import (
	"fmt"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/errors"
)

// Level is one of five discrete risk levels, totally ordered by rank.
type Level int

const (
	Turtle Level = iota + 1
	Steady
	Cruiser
	Falcon
	Rocket
)

const (
	MinLevel = Turtle
	MaxLevel = Rocket
)

// Direction indicates which way a tier transition moves.
type Direction int

const (
	Promote Direction = 1
	Demote  Direction = -1
)

// String returns the display label for the level.
func (l Level) String() string {
	switch l {
	case Turtle:
		return "TURTLE"
	case Steady:
		return "STEADY"
	case Cruiser:
		return "CRUISER"
	case Falcon:
		return "FALCON"
	case Rocket:
		return "ROCKET"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether the level is within the five-rank enumeration.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// ParseLevel maps a display label back to its Level.
func ParseLevel(label string) (Level, error) {
	for l := MinLevel; l <= MaxLevel; l++ {
		if l.String() == label {
			return l, nil
		}
	}
	return 0, errors.NewInvalidInputError("tier", "ParseLevel",
		fmt.Sprintf("unrecognized tier label %q", label))
}

// Config holds the immutable numeric parameters of one tier.
type Config struct {
	Label               string  `json:"label"`
	PositionSizeMin     float64 `json:"position_size_min"` // fraction of capital
	PositionSizeMax     float64 `json:"position_size_max"` // fraction of capital
	StopLossFraction    float64 `json:"stop_loss_fraction"`
	TakeProfitFraction  float64 `json:"take_profit_fraction"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	TargetPairCount     int     `json:"target_pair_count"`
}

// Catalogue is a read-only lookup from Level to Config. Every level has
// an entry; construction fails if any entry is malformed.
type Catalogue struct {
	configs map[Level]Config
}

// defaultConfigs is the shipped tier table. Size fractions and stop
// distances widen with rank; confidence requirements relax with rank.
var defaultConfigs = map[Level]Config{
	Turtle:  {Label: "TURTLE", PositionSizeMin: 0.05, PositionSizeMax: 0.10, StopLossFraction: 0.010, TakeProfitFraction: 0.030, ConfidenceThreshold: 0.75, TargetPairCount: 2},
	Steady:  {Label: "STEADY", PositionSizeMin: 0.08, PositionSizeMax: 0.15, StopLossFraction: 0.012, TakeProfitFraction: 0.040, ConfidenceThreshold: 0.70, TargetPairCount: 3},
	Cruiser: {Label: "CRUISER", PositionSizeMin: 0.12, PositionSizeMax: 0.20, StopLossFraction: 0.015, TakeProfitFraction: 0.050, ConfidenceThreshold: 0.65, TargetPairCount: 4},
	Falcon:  {Label: "FALCON", PositionSizeMin: 0.18, PositionSizeMax: 0.28, StopLossFraction: 0.018, TakeProfitFraction: 0.065, ConfidenceThreshold: 0.60, TargetPairCount: 5},
	Rocket:  {Label: "ROCKET", PositionSizeMin: 0.25, PositionSizeMax: 0.40, StopLossFraction: 0.022, TakeProfitFraction: 0.080, ConfidenceThreshold: 0.55, TargetPairCount: 6},
}

// NewCatalogue builds the catalogue from the shipped tier table.
func NewCatalogue() (*Catalogue, error) {
	return NewCatalogueFrom(defaultConfigs)
}

// NewCatalogueFrom builds a catalogue from a literal table, rejecting any
// tier whose bounds are inverted or whose fractions fall outside (0,1].
func NewCatalogueFrom(configs map[Level]Config) (*Catalogue, error) {
	table := make(map[Level]Config, len(configs))

	for l := MinLevel; l <= MaxLevel; l++ {
		cfg, ok := configs[l]
		if !ok {
			return nil, errors.NewConfigurationError("tier", "NewCatalogue",
				fmt.Sprintf("missing config for tier %s", l))
		}
		if err := validateConfig(l, cfg); err != nil {
			return nil, err
		}
		table[l] = cfg
	}

	return &Catalogue{configs: table}, nil
}

func validateConfig(l Level, cfg Config) error {
	if cfg.PositionSizeMin > cfg.PositionSizeMax {
		return errors.NewConfigurationError("tier", "NewCatalogue",
			fmt.Sprintf("tier %s: position_size_min %.4f exceeds position_size_max %.4f",
				l, cfg.PositionSizeMin, cfg.PositionSizeMax))
	}
	for name, f := range map[string]float64{
		"position_size_min":    cfg.PositionSizeMin,
		"position_size_max":    cfg.PositionSizeMax,
		"stop_loss_fraction":   cfg.StopLossFraction,
		"take_profit_fraction": cfg.TakeProfitFraction,
	} {
		if f <= 0 || f > 1 {
			return errors.NewConfigurationError("tier", "NewCatalogue",
				fmt.Sprintf("tier %s: %s %.4f outside (0,1]", l, name, f))
		}
	}
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return errors.NewConfigurationError("tier", "NewCatalogue",
			fmt.Sprintf("tier %s: confidence_threshold %.4f outside [0,1]", l, cfg.ConfidenceThreshold))
	}
	if cfg.TargetPairCount <= 0 {
		return errors.NewConfigurationError("tier", "NewCatalogue",
			fmt.Sprintf("tier %s: target_pair_count must be positive", l))
	}
	return nil
}

// Get returns the config for a level. Total over the valid enumeration;
// an invalid level is a caller input error.
func (c *Catalogue) Get(l Level) (Config, error) {
	cfg, ok := c.configs[l]
	if !ok {
		return Config{}, errors.NewInvalidInputError("tier", "Get",
			fmt.Sprintf("tier rank %d outside valid range [%d,%d]", int(l), int(MinLevel), int(MaxLevel)))
	}
	return cfg, nil
}

// Next returns the level one step in the given direction, clamped to the
// valid range. Promoting at Rocket or demoting at Turtle is a no-op.
func (c *Catalogue) Next(l Level, dir Direction) Level {
	next := Level(int(l) + int(dir))
	if next < MinLevel {
		return MinLevel
	}
	if next > MaxLevel {
		return MaxLevel
	}
	return next
}

// Levels returns all levels in rank order.
func (c *Catalogue) Levels() []Level {
	levels := make([]Level, 0, int(MaxLevel))
	for l := MinLevel; l <= MaxLevel; l++ {
		levels = append(levels, l)
	}
	return levels
}
