package types

import "time"

// Side represents the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TradeSignal is the candidate produced by an external signal collaborator.
// The engine treats every field as untrusted input and validates ranges
// before acting on it.
type TradeSignal struct {
	Pair             string             `json:"pair"`
	Side             Side               `json:"side"`
	Confidence       float64            `json:"confidence"`      // [0,1] reliability score
	ExpectedProfit   float64            `json:"expected_profit"` // fraction, e.g. 0.08 = 8%
	TrendStrength    float64            `json:"trend_strength"`  // caller multiplier, clamped internally
	Volatility       float64            `json:"volatility"`      // recent price volatility fraction
	MarketConditions map[string]float64 `json:"market_conditions,omitempty"`
}

// VolumeRatio returns the volume_ratio market condition and whether the
// collaborator supplied one.
func (s TradeSignal) VolumeRatio() (float64, bool) {
	if s.MarketConditions == nil {
		return 0, false
	}
	v, ok := s.MarketConditions["volume_ratio"]
	return v, ok
}

// TradeOutcome is one completed trade reported back by the execution
// collaborator. Records are immutable once recorded.
type TradeOutcome struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Pair      string    `json:"pair"`
	Side      Side      `json:"side"`
	PnL       float64   `json:"pnl"` // signed, same unit as capital
	TierLabel string    `json:"tier_at_execution"`
}

// IsWin reports whether the outcome was profitable. A zero-PnL trade
// counts as a loss for streak purposes.
func (o TradeOutcome) IsWin() bool {
	return o.PnL > 0
}
