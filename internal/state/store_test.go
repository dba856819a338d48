package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/errors"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/performance"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/tier"
	"github.com/Cryptomalo/AurumBotX-sub003/pkg/types"
)

var storeStart = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func populatedState(trades int) *performance.State {
	s := performance.NewState(1000.0, tier.Cruiser, storeStart)
	tracker := performance.NewTracker(s, nil)
	for i := 0; i < trades; i++ {
		pnl := 2.0
		if i%3 == 0 {
			pnl = -1.0
		}
		_ = tracker.RecordTrade(types.TradeOutcome{
			Timestamp: storeStart.Add(time.Duration(i) * time.Minute),
			Pair:      "SOLUSDT",
			Side:      types.SideSell,
			PnL:       pnl,
		})
	}
	return s
}

// TestSaveLoad_RoundTrip tests lossless restoration of capital, tier and counters
func TestSaveLoad_RoundTrip(t *testing.T) {
	store := NewStore()
	original := populatedState(40)

	data, err := store.Save(original)
	require.NoError(t, err)

	restored, err := store.Load(data)
	require.NoError(t, err)

	assert.Equal(t, original.InitialCapital, restored.InitialCapital)
	assert.Equal(t, original.CurrentCapital, restored.CurrentCapital)
	assert.Equal(t, original.ActiveTier, restored.ActiveTier)
	assert.Equal(t, original.TotalTrades, restored.TotalTrades)
	assert.Equal(t, original.WinningTrades, restored.WinningTrades)
	assert.Equal(t, original.LosingTrades, restored.LosingTrades)
	assert.Equal(t, original.ConsecutiveWins, restored.ConsecutiveWins)
	assert.Equal(t, original.ConsecutiveLosses, restored.ConsecutiveLosses)
	assert.Equal(t, original.MaxConsecutiveWins, restored.MaxConsecutiveWins)
	assert.Equal(t, original.MaxConsecutiveLosses, restored.MaxConsecutiveLosses)
	assert.InDelta(t, original.DailyPnL, restored.DailyPnL, 1e-9)
	assert.Equal(t, original.DailyTradeCount, restored.DailyTradeCount)
	assert.Len(t, restored.TradeHistory, 40)
	assert.Len(t, restored.TierHistory, len(original.TierHistory))
}

// TestSave_TruncatesHistoryKeepsCounters tests history capping with exact aggregates
func TestSave_TruncatesHistoryKeepsCounters(t *testing.T) {
	store := NewStore()
	original := populatedState(150)

	data, err := store.Save(original)
	require.NoError(t, err)

	restored, err := store.Load(data)
	require.NoError(t, err)

	assert.Len(t, restored.TradeHistory, DefaultHistoryLimit)
	assert.Equal(t, 150, restored.TotalTrades, "aggregate counters must survive truncation")

	// The retained records are the most recent ones.
	first := restored.TradeHistory[0]
	assert.Equal(t, storeStart.Add(50*time.Minute), first.Timestamp)
}

// TestSave_CustomLimit tests a configurable history limit
func TestSave_CustomLimit(t *testing.T) {
	store := NewStoreWithLimit(10)
	original := populatedState(30)

	data, err := store.Save(original)
	require.NoError(t, err)

	restored, err := store.Load(data)
	require.NoError(t, err)
	assert.Len(t, restored.TradeHistory, 10)
	assert.Equal(t, 30, restored.TotalTrades)
}

// TestLoad_RejectsUnknownTier tests corrupt-state detection on the tier label
func TestLoad_RejectsUnknownTier(t *testing.T) {
	store := NewStore()
	data, err := store.Save(populatedState(5))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["active_tier"] = "WARPDRIVE"
	mangled, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = store.Load(mangled)
	require.Error(t, err)
	assert.True(t, errors.IsCorruptState(err))
}

// TestLoad_RejectsNegativeTotalTrades tests corrupt-state detection on counters
func TestLoad_RejectsNegativeTotalTrades(t *testing.T) {
	store := NewStore()
	data, err := store.Save(populatedState(5))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	stats := doc["statistics"].(map[string]interface{})
	stats["total_trades"] = -3
	mangled, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = store.Load(mangled)
	require.Error(t, err)
	assert.True(t, errors.IsCorruptState(err))
}

// TestLoad_IgnoresUnknownFields tests forward compatibility of the document
func TestLoad_IgnoresUnknownFields(t *testing.T) {
	store := NewStore()
	data, err := store.Save(populatedState(5))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["future_feature"] = map[string]interface{}{"enabled": true}
	extended, err := json.Marshal(doc)
	require.NoError(t, err)

	restored, err := store.Load(extended)
	require.NoError(t, err)
	assert.Equal(t, 5, restored.TotalTrades)
}

// TestLoad_RejectsMalformedJSON tests the unparseable-payload path
func TestLoad_RejectsMalformedJSON(t *testing.T) {
	store := NewStore()
	_, err := store.Load([]byte("{not json"))
	require.Error(t, err)
	assert.True(t, errors.IsCorruptState(err))
}

// TestSaveFileLoadFile_AtomicReplace tests file persistence and temp-file cleanup
func TestSaveFileLoadFile_AtomicReplace(t *testing.T) {
	store := NewStore()
	dir := t.TempDir()
	path := filepath.Join(dir, "session", "engine_state.json")

	original := populatedState(12)
	require.NoError(t, store.SaveFile(original, path))

	// No leftover temp file after the rename.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	restored, err := store.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original.CurrentCapital, restored.CurrentCapital)
	assert.Equal(t, original.ActiveTier, restored.ActiveTier)

	// Saving again replaces the document in place.
	original.CurrentCapital += 10
	require.NoError(t, store.SaveFile(original, path))
	restored, err = store.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original.CurrentCapital, restored.CurrentCapital)
}

// TestLoadFile_MissingFile tests the missing-file error path
func TestLoadFile_MissingFile(t *testing.T) {
	store := NewStore()
	_, err := store.LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
