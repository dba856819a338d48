package transition

import (
	"time"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/performance"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/tier"
)

// Policy holds the promotion/demotion thresholds and the two lookback
// windows they read. The trade-count window and the wall-clock growth
// window are intentionally independent knobs; nothing in the tuned
// policy suggests one subsumes the other.
type Policy struct {
	MinHistory       int           `json:"min_history"`        // no transitions below this sample size
	RecentWindow     int           `json:"recent_window"`      // trades for win-rate
	GrowthWindow     time.Duration `json:"growth_window"`      // wall-clock window for growth
	PromoteWinRate   float64       `json:"promote_win_rate"`   // exclusive lower bound
	PromoteGrowth    float64       `json:"promote_growth"`     // exclusive lower bound
	PromoteWinStreak int           `json:"promote_win_streak"` // inclusive
	DemoteWinRate    float64       `json:"demote_win_rate"`    // exclusive upper bound
	DemoteLossStreak int           `json:"demote_loss_streak"` // inclusive
	DemoteDailyFrac  float64       `json:"demote_daily_frac"`  // daily loss as fraction of capital
}

// DefaultPolicy returns the shipped transition thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinHistory:       10,
		RecentWindow:     20,
		GrowthWindow:     7 * 24 * time.Hour,
		PromoteWinRate:   0.70,
		PromoteGrowth:    0.15,
		PromoteWinStreak: 5,
		DemoteWinRate:    0.55,
		DemoteLossStreak: 3,
		DemoteDailyFrac:  0.05,
	}
}

// Listener is notified after a tier transition has been applied.
type Listener func(from, to tier.Level, dir tier.Direction, at time.Time)

// Controller promotes and demotes the active tier from trailing
// performance. It is invoked by the tracker after every recorded trade.
type Controller struct {
	catalogue *tier.Catalogue
	policy    Policy
	listener  Listener
}

// NewController creates a transition controller.
func NewController(catalogue *tier.Catalogue, policy Policy) *Controller {
	return &Controller{catalogue: catalogue, policy: policy}
}

// SetListener registers a callback for applied transitions. Used by the
// engine for logging and metrics; may be nil.
func (c *Controller) SetListener(l Listener) {
	c.listener = l
}

// Evaluate re-assesses the tier after a recorded trade. Promotion is
// checked first and excludes demotion for the same call. With fewer
// than MinHistory trades the sample is too small and nothing moves.
func (c *Controller) Evaluate(s *performance.State, now time.Time) {
	if len(s.TradeHistory) < c.policy.MinHistory {
		return
	}

	winRate := s.WinRate(c.policy.RecentWindow)
	growth := s.GrowthOver(c.policy.GrowthWindow, now)

	if c.shouldPromote(s, winRate, growth) {
		c.apply(s, tier.Promote, now)
		return
	}
	if c.shouldDemote(s, winRate) {
		c.apply(s, tier.Demote, now)
	}
}

// shouldPromote requires every promotion condition to hold at once.
func (c *Controller) shouldPromote(s *performance.State, winRate, growth float64) bool {
	if s.ActiveTier >= tier.MaxLevel {
		return false
	}
	return winRate > c.policy.PromoteWinRate &&
		growth > c.policy.PromoteGrowth &&
		s.ConsecutiveWins >= c.policy.PromoteWinStreak
}

// shouldDemote fires on any single demotion condition.
func (c *Controller) shouldDemote(s *performance.State, winRate float64) bool {
	if s.ActiveTier <= tier.MinLevel {
		return false
	}
	return winRate < c.policy.DemoteWinRate ||
		s.ConsecutiveLosses >= c.policy.DemoteLossStreak ||
		s.DailyPnL < -s.CurrentCapital*c.policy.DemoteDailyFrac
}

func (c *Controller) apply(s *performance.State, dir tier.Direction, now time.Time) {
	from := s.ActiveTier
	to := c.catalogue.Next(from, dir)
	if to == from {
		return
	}

	s.ActiveTier = to
	s.TierHistory = append(s.TierHistory, performance.TierChange{
		Timestamp: now,
		Level:     to,
		Label:     to.String(),
	})

	if c.listener != nil {
		c.listener(from, to, dir, now)
	}
}
