package performance

import (
	"fmt"
	"math"
	"time"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/errors"
	"github.com/Cryptomalo/AurumBotX-sub003/pkg/id"
	"github.com/Cryptomalo/AurumBotX-sub003/pkg/types"
)

// Evaluator re-assesses the active tier after each recorded trade.
// Implemented by the transition controller.
type Evaluator interface {
	Evaluate(s *State, now time.Time)
}

// Tracker maintains the rolling trade history and derived statistics of
// a single State. It is not internally synchronized; concurrent hosts
// must serialize RecordTrade with any should-trade checks that read the
// same state.
type Tracker struct {
	state     *State
	evaluator Evaluator
}

// NewTracker creates a tracker over the given state. evaluator may be
// nil, in which case no tier transitions ever occur.
func NewTracker(state *State, evaluator Evaluator) *Tracker {
	return &Tracker{state: state, evaluator: evaluator}
}

// State exposes the tracked state for read-side collaborators.
func (t *Tracker) State() *State {
	return t.state
}

// RecordTrade appends a completed trade, updates capital, counters and
// streaks, re-evaluates the tier and finally rolls the daily counters
// if the wall-clock date has advanced past the last reset.
//
// Validation happens before any mutation: a rejected outcome leaves the
// state untouched.
func (t *Tracker) RecordTrade(outcome types.TradeOutcome) error {
	if math.IsNaN(outcome.PnL) || math.IsInf(outcome.PnL, 0) {
		return errors.NewInvalidInputError("performance", "RecordTrade",
			fmt.Sprintf("pnl must be finite, got %v", outcome.PnL))
	}
	if outcome.Timestamp.IsZero() {
		outcome.Timestamp = time.Now().UTC()
	}
	if outcome.ID == "" {
		outcome.ID = id.New()
	}
	if outcome.TierLabel == "" {
		outcome.TierLabel = t.state.ActiveTier.String()
	}

	s := t.state
	s.TradeHistory = append(s.TradeHistory, outcome)
	s.CurrentCapital += outcome.PnL
	s.DailyPnL += outcome.PnL
	s.TotalTrades++
	s.DailyTradeCount++

	if outcome.IsWin() {
		s.WinningTrades++
		s.ConsecutiveWins++
		s.ConsecutiveLosses = 0
		if s.ConsecutiveWins > s.MaxConsecutiveWins {
			s.MaxConsecutiveWins = s.ConsecutiveWins
		}
	} else {
		s.LosingTrades++
		s.ConsecutiveLosses++
		s.ConsecutiveWins = 0
		if s.ConsecutiveLosses > s.MaxConsecutiveLosses {
			s.MaxConsecutiveLosses = s.ConsecutiveLosses
		}
	}

	if t.evaluator != nil {
		t.evaluator.Evaluate(s, outcome.Timestamp)
	}

	t.rolloverDaily(outcome.Timestamp)
	return nil
}

// rolloverDaily resets the daily counters once the date advances past
// the last reset date. The reset runs after tier evaluation so a
// day-closing loss still counts toward the demotion check it triggered.
func (t *Tracker) rolloverDaily(now time.Time) {
	today := dateOnly(now)
	if today.After(t.state.LastResetDate) {
		t.state.DailyPnL = 0
		t.state.DailyTradeCount = 0
		t.state.LastResetDate = today
	}
}
