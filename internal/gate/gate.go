package gate

import (
	"fmt"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/errors"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/performance"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/tier"
	"github.com/Cryptomalo/AurumBotX-sub003/pkg/types"
)

// ReasonCode identifies which veto rejected a candidate, for metrics
// and log aggregation.
type ReasonCode string

const (
	CodeAdmitted       ReasonCode = "ADMITTED"
	CodeConfidence     ReasonCode = "CONFIDENCE_BELOW_THRESHOLD"
	CodeProfitFeeRatio ReasonCode = "PROFIT_FEE_RATIO"
	CodeProfitFloor    ReasonCode = "PROFIT_BELOW_FLOOR"
	CodeDailyLoss      ReasonCode = "DAILY_LOSS_LIMIT"
	CodeLossStreak     ReasonCode = "LOSS_STREAK_LIMIT"
	CodeDrawdown       ReasonCode = "DRAWDOWN_LIMIT"
	CodeVolumeRatio    ReasonCode = "VOLUME_RATIO_LOW"
)

// Decision is the structured result of a gate evaluation. Rejection is
// the expected steady-state outcome for most candidates and is never an
// error.
type Decision struct {
	Admit  bool
	Code   ReasonCode
	Reason string
}

// Params holds the admission policy knobs. The profit/fee ratio minimum
// and the profit-floor ratio are carried forward from the tuned policy
// without a documented derivation; treat them as adjustable thresholds
// rather than proven-optimal values.
type Params struct {
	FeeRate           float64 `json:"fee_rate"`
	MinProfitFeeScore float64 `json:"min_profit_fee_score"` // (profit/fee)*confidence floor
	ProfitFloorRatio  float64 `json:"profit_floor_ratio"`   // fraction of tier take-profit target
	DailyLossFrac     float64 `json:"daily_loss_frac"`      // of current capital
	MaxConsecLosses   int     `json:"max_consecutive_losses"`
	MaxDrawdownFrac   float64 `json:"max_drawdown_frac"` // of initial capital
	MinVolumeRatio    float64 `json:"min_volume_ratio"`
}

// DefaultParams returns the shipped admission thresholds.
func DefaultParams() Params {
	return Params{
		FeeRate:           0.001,
		MinProfitFeeScore: 50,
		ProfitFloorRatio:  0.625,
		DailyLossFrac:     0.08,
		MaxConsecLosses:   5,
		MaxDrawdownFrac:   0.30,
		MinVolumeRatio:    1.0,
	}
}

// Gate admits or rejects candidate signals against tier thresholds and
// the account's circuit breakers.
type Gate struct {
	catalogue *tier.Catalogue
	params    Params
}

// NewGate creates a gate over the given catalogue.
func NewGate(catalogue *tier.Catalogue, params Params) *Gate {
	return &Gate{catalogue: catalogue, params: params}
}

// Evaluate runs the veto chain in its fixed order; the first failing
// check short-circuits with its reason. The ordering is part of the
// gate's contract.
//
// A non-positive capital is treated as caller error, not a refusal: a
// wiped account should never reach the gate, so it surfaces as an
// invalid-input error before the drawdown check can see it.
func (g *Gate) Evaluate(signal types.TradeSignal, state *performance.State, level tier.Level) (Decision, error) {
	if signal.Confidence < 0 || signal.Confidence > 1 {
		return Decision{}, errors.NewInvalidInputError("gate", "Evaluate",
			fmt.Sprintf("confidence %.4f outside [0,1]", signal.Confidence))
	}
	if state.CurrentCapital <= 0 {
		return Decision{}, errors.NewInvalidInputError("gate", "Evaluate",
			fmt.Sprintf("capital must be positive, got %.4f", state.CurrentCapital))
	}
	cfg, err := g.catalogue.Get(level)
	if err != nil {
		return Decision{}, err
	}

	// 1. Tier confidence threshold.
	if signal.Confidence < cfg.ConfidenceThreshold {
		return reject(CodeConfidence, fmt.Sprintf(
			"confidence %.2f below tier %s threshold %.2f",
			signal.Confidence, cfg.Label, cfg.ConfidenceThreshold)), nil
	}

	// 2. Edge too thin relative to transaction cost, scaled by uncertainty.
	score := (signal.ExpectedProfit / g.params.FeeRate) * signal.Confidence
	if score < g.params.MinProfitFeeScore {
		return reject(CodeProfitFeeRatio, fmt.Sprintf(
			"profit/fee score %.1f below minimum %.1f",
			score, g.params.MinProfitFeeScore)), nil
	}

	// 3. Minimum-profit floor relative to the tier's target.
	floor := cfg.TakeProfitFraction * g.params.ProfitFloorRatio
	if signal.ExpectedProfit < floor {
		return reject(CodeProfitFloor, fmt.Sprintf(
			"expected profit %.2f%% below tier floor %.2f%%",
			signal.ExpectedProfit*100, floor*100)), nil
	}

	// 4. Daily loss circuit breaker.
	if state.DailyPnL < -state.CurrentCapital*g.params.DailyLossFrac {
		return reject(CodeDailyLoss, fmt.Sprintf(
			"daily pnl %.2f breaches %.0f%% daily loss limit",
			state.DailyPnL, g.params.DailyLossFrac*100)), nil
	}

	// 5. Loss-streak circuit breaker.
	if state.ConsecutiveLosses >= g.params.MaxConsecLosses {
		return reject(CodeLossStreak, fmt.Sprintf(
			"%d consecutive losses reached limit %d",
			state.ConsecutiveLosses, g.params.MaxConsecLosses)), nil
	}

	// 6. Drawdown from initial capital.
	if state.Drawdown() > g.params.MaxDrawdownFrac {
		return reject(CodeDrawdown, fmt.Sprintf(
			"drawdown %.1f%% exceeds %.0f%% limit",
			state.Drawdown()*100, g.params.MaxDrawdownFrac*100)), nil
	}

	// 7. Thin market veto, only when the collaborator reports volume.
	if ratio, ok := signal.VolumeRatio(); ok && ratio < g.params.MinVolumeRatio {
		return reject(CodeVolumeRatio, fmt.Sprintf(
			"volume ratio %.2f below minimum %.2f",
			ratio, g.params.MinVolumeRatio)), nil
	}

	return Decision{Admit: true, Code: CodeAdmitted, Reason: "all checks passed"}, nil
}

func reject(code ReasonCode, reason string) Decision {
	return Decision{Admit: false, Code: code, Reason: reason}
}
