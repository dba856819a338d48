package performance

import (
	"time"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/tier"
	"github.com/Cryptomalo/AurumBotX-sub003/pkg/types"
)

// TierChange is one entry in the tier transition history.
type TierChange struct {
	Timestamp time.Time  `json:"timestamp"`
	Level     tier.Level `json:"-"`
	Label     string     `json:"tier"`
}

// State is the mutable root of the engine: capital, the active tier and
// the full trading record. It is mutated exclusively through
// Tracker.RecordTrade and the transition controller.
type State struct {
	InitialCapital float64
	CurrentCapital float64
	ActiveTier     tier.Level

	TradeHistory []types.TradeOutcome
	TierHistory  []TierChange

	TotalTrades          int
	WinningTrades        int
	LosingTrades         int
	ConsecutiveWins      int
	ConsecutiveLosses    int
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int

	DailyPnL        float64
	DailyTradeCount int
	LastResetDate   time.Time // date-only, UTC
}

// NewState creates a fresh session state. The tier history is seeded
// with the starting tier.
func NewState(initialCapital float64, startTier tier.Level, now time.Time) *State {
	return &State{
		InitialCapital: initialCapital,
		CurrentCapital: initialCapital,
		ActiveTier:     startTier,
		TierHistory: []TierChange{
			{Timestamp: now, Level: startTier, Label: startTier.String()},
		},
		LastResetDate: dateOnly(now),
	}
}

// WinRate returns the win fraction over the most recent n trades, or
// over the whole history if it holds fewer. Zero history yields zero.
func (s *State) WinRate(n int) float64 {
	recent := s.recent(n)
	if len(recent) == 0 {
		return 0
	}
	wins := 0
	for _, o := range recent {
		if o.IsWin() {
			wins++
		}
	}
	return float64(wins) / float64(len(recent))
}

// GrowthOver returns the fractional capital growth attributable to
// trades inside the trailing window ending at now. With no trades in
// the window the growth is zero.
func (s *State) GrowthOver(window time.Duration, now time.Time) float64 {
	cutoff := now.Add(-window)
	windowPnL := 0.0
	traded := false
	for _, o := range s.TradeHistory {
		if o.Timestamp.After(cutoff) {
			windowPnL += o.PnL
			traded = true
		}
	}
	if !traded {
		return 0
	}
	capitalBefore := s.CurrentCapital - windowPnL
	if capitalBefore <= 0 {
		return 0
	}
	return (s.CurrentCapital - capitalBefore) / capitalBefore
}

// Drawdown returns the fractional loss of capital from its initial value.
// Negative values mean the account is above its starting capital.
func (s *State) Drawdown() float64 {
	if s.InitialCapital <= 0 {
		return 0
	}
	return (s.InitialCapital - s.CurrentCapital) / s.InitialCapital
}

// recent returns the last n trades in insertion order.
func (s *State) recent(n int) []types.TradeOutcome {
	if n <= 0 || len(s.TradeHistory) <= n {
		return s.TradeHistory
	}
	return s.TradeHistory[len(s.TradeHistory)-n:]
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
