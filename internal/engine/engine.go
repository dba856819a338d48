package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/errors"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/gate"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/logger"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/monitoring"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/performance"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/sizing"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/state"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/tier"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/transition"
	"github.com/Cryptomalo/AurumBotX-sub003/pkg/types"
)

// TradePlan is the execution plan for an admitted signal: how much
// capital to commit and where the protective levels sit.
type TradePlan struct {
	Tier       tier.Level
	TierLabel  string
	Size       float64
	StopLoss   float64
	TakeProfit float64
}

// Engine owns one StrategyState and coordinates the full trading
// cycle: gate evaluation, position planning, outcome recording and
// tier transitions. All public methods are serialized on an internal
// mutex, so a should-trade check and the record that follows it form
// a consistent critical section for concurrent hosts.
type Engine struct {
	mu sync.Mutex

	catalogue  *tier.Catalogue
	sizer      *sizing.Sizer
	gate       *gate.Gate
	tracker    *performance.Tracker
	controller *transition.Controller
	store      *state.Store

	log     *logger.Logger // optional
	health  *monitoring.HealthChecker
	metrics bool
}

// New creates an engine with a fresh session state.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	startTier, err := tier.ParseLevel(cfg.StartTier)
	if err != nil {
		return nil, errors.NewConfigurationError("engine", "New",
			fmt.Sprintf("unrecognized start tier %q", cfg.StartTier))
	}
	st := performance.NewState(cfg.InitialCapital, startTier, time.Now().UTC())
	return NewFromState(cfg, st)
}

// NewFromState creates an engine over a restored session state, as
// produced by the state store.
func NewFromState(cfg Config, st *performance.State) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	catalogue, err := tier.NewCatalogue()
	if err != nil {
		return nil, err
	}

	controller := transition.NewController(catalogue, cfg.transitionPolicy())
	e := &Engine{
		catalogue:  catalogue,
		sizer:      sizing.NewSizer(catalogue, cfg.Sizing),
		gate:       gate.NewGate(catalogue, cfg.Gate),
		tracker:    performance.NewTracker(st, controller),
		controller: controller,
		store:      state.NewStoreWithLimit(cfg.HistoryLimit),
		health:     monitoring.NewHealthChecker(),
		metrics:    cfg.EnableMetrics,
	}
	controller.SetListener(e.onTierTransition)

	if e.metrics {
		monitoring.UpdateCapital(st.CurrentCapital)
		monitoring.UpdateActiveTier(int(st.ActiveTier))
	}
	return e, nil
}

// SetLogger attaches a session file logger. May be nil to disable.
func (e *Engine) SetLogger(l *logger.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = l
}

// Health returns the engine's health checker for HTTP exposure.
func (e *Engine) Health() *monitoring.HealthChecker {
	return e.health
}

// Catalogue exposes the tier table for reporting.
func (e *Engine) Catalogue() *tier.Catalogue {
	return e.catalogue
}

// ShouldTrade runs the admission gate against the current state and
// active tier. A rejection is a normal result, not an error; errors
// are reserved for out-of-range inputs.
func (e *Engine) ShouldTrade(signal types.TradeSignal) (gate.Decision, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.tracker.State()
	decision, err := e.gate.Evaluate(signal, st, st.ActiveTier)
	if err != nil {
		return gate.Decision{}, err
	}

	if !decision.Admit {
		if e.metrics {
			monitoring.RecordRejection(string(decision.Code))
		}
		if e.log != nil {
			e.log.LogRejection(signal.Pair, string(decision.Code), decision.Reason)
		}
	}
	return decision, nil
}

// PlanTrade computes the position size and protective levels for an
// admitted signal at the given entry price.
func (e *Engine) PlanTrade(signal types.TradeSignal, entryPrice float64) (TradePlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.tracker.State()
	level := st.ActiveTier

	size, err := e.sizer.PositionSize(st.CurrentCapital, signal.Confidence,
		signal.TrendStrength, signal.ExpectedProfit, level)
	if err != nil {
		return TradePlan{}, err
	}
	stopLoss, err := e.sizer.StopLoss(entryPrice, signal.Volatility, level)
	if err != nil {
		return TradePlan{}, err
	}
	takeProfit, err := e.sizer.TakeProfit(entryPrice, level)
	if err != nil {
		return TradePlan{}, err
	}

	if e.metrics {
		monitoring.ObservePositionSize(level.String(), size)
	}

	return TradePlan{
		Tier:       level,
		TierLabel:  level.String(),
		Size:       size,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
	}, nil
}

// RecordOutcome ingests a completed trade from the execution
// collaborator, updating capital, counters and the active tier.
func (e *Engine) RecordOutcome(outcome types.TradeOutcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.tracker.RecordTrade(outcome); err != nil {
		return err
	}

	st := e.tracker.State()
	if e.metrics {
		monitoring.RecordTrade(outcome.Pair, string(outcome.Side), outcome.IsWin())
		monitoring.UpdateCapital(st.CurrentCapital)
	}
	if e.log != nil {
		e.log.LogTradeRecorded(outcome.Pair, string(outcome.Side),
			outcome.PnL, st.CurrentCapital, st.ActiveTier.String())
	}
	e.health.SetLastTrade(outcome.Timestamp)
	e.health.SetAccount(st.CurrentCapital, st.ActiveTier.String())
	return nil
}

// Snapshot returns a copy of the current state for read-only use
// (reporting, persistence decisions). Histories share backing arrays
// but are never mutated in place by the engine.
func (e *Engine) Snapshot() performance.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.tracker.State()
}

// SaveFile persists the state document to path atomically.
func (e *Engine) SaveFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.SaveFile(e.tracker.State(), path)
}

// onTierTransition feeds applied transitions into metrics and the log.
func (e *Engine) onTierTransition(from, to tier.Level, dir tier.Direction, at time.Time) {
	promoted := dir == tier.Promote
	if e.metrics {
		monitoring.RecordTierTransition(promoted)
		monitoring.UpdateActiveTier(int(to))
	}
	if e.log != nil {
		e.log.LogTierTransition(from.String(), to.String(), promoted)
	}
}
