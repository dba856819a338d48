package sizing

import (
	"fmt"
	"math"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/errors"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/tier"
)

// Params holds the sizing policy knobs. The fee rate and the multiplier
// breakpoints mirror the round-trip cost structure they were tuned
// against; they are knobs, not derived constants.
type Params struct {
	FeeRate            float64 `json:"fee_rate"`        // round-trip fee fraction
	TrendClampMin      float64 `json:"trend_clamp_min"` // tolerance band for trend_strength
	TrendClampMax      float64 `json:"trend_clamp_max"`
	AbsoluteFloor      float64 `json:"absolute_floor"`       // minimum trade amount in capital units
	CapitalCeilingFrac float64 `json:"capital_ceiling_frac"` // hard per-trade cap, independent of tier
	StopLossFloor      float64 `json:"stop_loss_floor"`
	StopLossCeiling    float64 `json:"stop_loss_ceiling"`
	VolatilityWeight   float64 `json:"volatility_weight"` // volatility contribution to stop distance
	VolatilityCap      float64 `json:"volatility_cap"`
}

// DefaultParams returns the shipped sizing parameters.
func DefaultParams() Params {
	return Params{
		FeeRate:            0.001,
		TrendClampMin:      0.8,
		TrendClampMax:      1.3,
		AbsoluteFloor:      1.0,
		CapitalCeilingFrac: 0.25,
		StopLossFloor:      0.005,
		StopLossCeiling:    0.04,
		VolatilityWeight:   0.5,
		VolatilityCap:      0.02,
	}
}

// Sizer computes position sizes and protective price levels from tier
// parameters and signal metadata. All methods are pure functions of
// their inputs.
type Sizer struct {
	catalogue *tier.Catalogue
	params    Params
}

// NewSizer creates a sizer over the given catalogue.
func NewSizer(catalogue *tier.Catalogue, params Params) *Sizer {
	return &Sizer{catalogue: catalogue, params: params}
}

// PositionSize returns the capital amount to commit to a single trade.
//
// The base fraction is the midpoint of the tier's size band, scaled by
// confidence ([0.8,1.2]), clamped trend strength and a fee-awareness
// multiplier that rewards trades whose expected profit dominates the
// round-trip fee. The result is capped at the hard per-trade ceiling
// regardless of tier, with an absolute floor of one capital unit.
func (s *Sizer) PositionSize(capital, confidence, trendStrength, expectedProfit float64, level tier.Level) (float64, error) {
	if capital <= 0 {
		return 0, errors.NewInvalidInputError("sizing", "PositionSize",
			fmt.Sprintf("capital must be positive, got %.4f", capital))
	}
	if confidence < 0 || confidence > 1 {
		return 0, errors.NewInvalidInputError("sizing", "PositionSize",
			fmt.Sprintf("confidence %.4f outside [0,1]", confidence))
	}
	if expectedProfit < 0 {
		return 0, errors.NewInvalidInputError("sizing", "PositionSize",
			fmt.Sprintf("expected profit must be non-negative, got %.4f", expectedProfit))
	}
	cfg, err := s.catalogue.Get(level)
	if err != nil {
		return 0, err
	}

	baseFraction := (cfg.PositionSizeMin + cfg.PositionSizeMax) / 2
	confidenceMult := 0.8 + confidence*0.4
	trendMult := clamp(trendStrength, s.params.TrendClampMin, s.params.TrendClampMax)
	feeMult := s.feeAwarenessMultiplier(expectedProfit)

	fraction := baseFraction * confidenceMult * trendMult * feeMult
	amount := capital * fraction

	// Hard safety ceiling first, absolute floor last: tiny accounts
	// floor at one unit even when the ceiling sits below it.
	amount = math.Min(amount, capital*s.params.CapitalCeilingFrac)
	amount = math.Max(amount, s.params.AbsoluteFloor)

	return amount, nil
}

// feeAwarenessMultiplier scales size up when the expected profit is
// large relative to the round-trip fee.
func (s *Sizer) feeAwarenessMultiplier(expectedProfit float64) float64 {
	ratio := expectedProfit / s.params.FeeRate
	switch {
	case ratio > 100:
		return 1.3
	case ratio > 80:
		return 1.2
	case ratio > 50:
		return 1.1
	default:
		return 1.0
	}
}

// StopLoss returns the protective stop price for an entry. The stop
// distance widens with recent volatility, bounded to the configured band.
func (s *Sizer) StopLoss(entryPrice, volatility float64, level tier.Level) (float64, error) {
	if entryPrice <= 0 {
		return 0, errors.NewInvalidInputError("sizing", "StopLoss",
			fmt.Sprintf("entry price must be positive, got %.4f", entryPrice))
	}
	cfg, err := s.catalogue.Get(level)
	if err != nil {
		return 0, err
	}

	volAdjust := math.Min(volatility*s.params.VolatilityWeight, s.params.VolatilityCap)
	slFraction := clamp(cfg.StopLossFraction+volAdjust, s.params.StopLossFloor, s.params.StopLossCeiling)

	return entryPrice * (1 - slFraction), nil
}

// TakeProfit returns the profit target price for an entry.
func (s *Sizer) TakeProfit(entryPrice float64, level tier.Level) (float64, error) {
	if entryPrice <= 0 {
		return 0, errors.NewInvalidInputError("sizing", "TakeProfit",
			fmt.Sprintf("entry price must be positive, got %.4f", entryPrice))
	}
	cfg, err := s.catalogue.Get(level)
	if err != nil {
		return 0, err
	}
	return entryPrice * (1 + cfg.TakeProfitFraction), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
