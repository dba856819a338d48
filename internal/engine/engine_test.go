package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/errors"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/gate"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/state"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/tier"
	"github.com/Cryptomalo/AurumBotX-sub003/pkg/types"
)

func testConfig() Config {
	cfg := DefaultConfig(1000.0)
	cfg.EnableMetrics = false // keep test runs out of the global registry
	return cfg
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(testConfig())
	require.NoError(t, err)
	return eng
}

func cleanSignal() types.TradeSignal {
	return types.TradeSignal{
		Pair:           "BTCUSDT",
		Side:           types.SideBuy,
		Confidence:     0.85,
		ExpectedProfit: 0.08,
		TrendStrength:  1.1,
		Volatility:     0.01,
	}
}

// TestEngine_FullCycle tests admit, plan and record over one trade
func TestEngine_FullCycle(t *testing.T) {
	eng := newTestEngine(t)

	decision, err := eng.ShouldTrade(cleanSignal())
	require.NoError(t, err)
	require.True(t, decision.Admit)

	plan, err := eng.PlanTrade(cleanSignal(), 100.0)
	require.NoError(t, err)
	assert.Equal(t, tier.Turtle, plan.Tier)
	assert.Greater(t, plan.Size, 0.0)
	assert.LessOrEqual(t, plan.Size, 250.0)
	assert.Less(t, plan.StopLoss, 100.0)
	assert.Greater(t, plan.TakeProfit, 100.0)

	require.NoError(t, eng.RecordOutcome(types.TradeOutcome{
		Timestamp: time.Now().UTC(),
		Pair:      "BTCUSDT",
		Side:      types.SideBuy,
		PnL:       plan.Size * 0.03,
	}))

	snapshot := eng.Snapshot()
	assert.Equal(t, 1, snapshot.TotalTrades)
	assert.InDelta(t, 1000.0+plan.Size*0.03, snapshot.CurrentCapital, 1e-9)
}

// TestEngine_RejectionIsNotAnError tests that refusals surface as decisions
func TestEngine_RejectionIsNotAnError(t *testing.T) {
	eng := newTestEngine(t)

	signal := cleanSignal()
	signal.Confidence = 0.10

	decision, err := eng.ShouldTrade(signal)
	require.NoError(t, err)
	assert.False(t, decision.Admit)
	assert.Equal(t, gate.CodeConfidence, decision.Code)
}

// TestEngine_InvalidSignalIsAnError tests input validation at the facade
func TestEngine_InvalidSignalIsAnError(t *testing.T) {
	eng := newTestEngine(t)

	signal := cleanSignal()
	signal.Confidence = 2.0

	_, err := eng.ShouldTrade(signal)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

// TestEngine_SaveAndRestore tests persistence through the facade
func TestEngine_SaveAndRestore(t *testing.T) {
	eng := newTestEngine(t)

	require.NoError(t, eng.RecordOutcome(types.TradeOutcome{
		Timestamp: time.Now().UTC(),
		Pair:      "ETHUSDT",
		Side:      types.SideSell,
		PnL:       42.0,
	}))

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, eng.SaveFile(path))

	restored, err := state.NewStore().LoadFile(path)
	require.NoError(t, err)

	revived, err := NewFromState(testConfig(), restored)
	require.NoError(t, err)

	snapshot := revived.Snapshot()
	assert.Equal(t, 1, snapshot.TotalTrades)
	assert.InDelta(t, 1042.0, snapshot.CurrentCapital, 1e-9)
	assert.Equal(t, tier.Turtle, snapshot.ActiveTier)
}

// TestConfig_Validate tests construction-time configuration checks
func TestConfig_Validate(t *testing.T) {
	cfg := testConfig()
	cfg.InitialCapital = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	cfg = testConfig()
	cfg.StartTier = "PLAID"
	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	cfg = testConfig()
	cfg.Sizing.CapitalCeilingFrac = 1.5
	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	cfg = testConfig()
	cfg.Transition.RecentWindow = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

// TestLoadConfig_FileOverridesDefaults tests partial JSON config merging
func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	override := []byte(`{
		"start_tier": "CRUISER",
		"gate": {
			"fee_rate": 0.002,
			"min_profit_fee_score": 25
		}
	}`)
	require.NoError(t, os.WriteFile(path, override, 0644))

	cfg, err := LoadConfig(path, 500.0)
	require.NoError(t, err)

	assert.Equal(t, "CRUISER", cfg.StartTier)
	assert.InDelta(t, 0.002, cfg.Gate.FeeRate, 1e-9)
	assert.InDelta(t, 500.0, cfg.InitialCapital, 1e-9)
	// Untouched fields keep their defaults, even inside an overridden section.
	assert.InDelta(t, 0.625, cfg.Gate.ProfitFloorRatio, 1e-9)
	assert.Equal(t, 20, cfg.Transition.RecentWindow)
	assert.InDelta(t, 0.25, cfg.Sizing.CapitalCeilingFrac, 1e-9)
}

// TestLoadConfig_MissingFile tests the fatal configuration path
func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"), 1000.0)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}
