package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/errors"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/performance"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/tier"
	"github.com/Cryptomalo/AurumBotX-sub003/pkg/types"
)

const documentVersion = "1.0.0"

// DefaultHistoryLimit is the number of trade records retained in the
// persisted document. Aggregate counters stay exact regardless.
const DefaultHistoryLimit = 100

// Document is the persisted JSON form of a strategy state. Unknown
// extra fields are ignored on load.
type Document struct {
	Version        string                   `json:"version"`
	SavedAt        time.Time                `json:"saved_at"`
	InitialCapital float64                  `json:"initial_capital"`
	CurrentCapital float64                  `json:"current_capital"`
	ActiveTier     string                   `json:"active_tier"`
	Statistics     Statistics               `json:"statistics"`
	TradeHistory   []types.TradeOutcome     `json:"trade_history"`
	TierHistory    []performance.TierChange `json:"tier_history"`
}

// Statistics mirrors the state counters in the persisted document.
type Statistics struct {
	TotalTrades          int       `json:"total_trades"`
	WinningTrades        int       `json:"winning_trades"`
	LosingTrades         int       `json:"losing_trades"`
	ConsecutiveWins      int       `json:"consecutive_wins"`
	ConsecutiveLosses    int       `json:"consecutive_losses"`
	MaxConsecutiveWins   int       `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int       `json:"max_consecutive_losses"`
	DailyPnL             float64   `json:"daily_pnl"`
	DailyTradeCount      int       `json:"daily_trade_count"`
	LastResetDate        time.Time `json:"last_reset_date"`
}

// Store serializes and restores strategy state. Saving may truncate the
// retained trade history; everything else round-trips losslessly.
type Store struct {
	historyLimit int
}

// NewStore creates a store with the default history limit.
func NewStore() *Store {
	return &Store{historyLimit: DefaultHistoryLimit}
}

// NewStoreWithLimit creates a store retaining up to limit trade records
// per saved document. A non-positive limit keeps the full history.
func NewStoreWithLimit(limit int) *Store {
	return &Store{historyLimit: limit}
}

// Save serializes a state to its JSON document form.
func (st *Store) Save(s *performance.State) ([]byte, error) {
	doc := Document{
		Version:        documentVersion,
		SavedAt:        time.Now().UTC(),
		InitialCapital: s.InitialCapital,
		CurrentCapital: s.CurrentCapital,
		ActiveTier:     s.ActiveTier.String(),
		Statistics: Statistics{
			TotalTrades:          s.TotalTrades,
			WinningTrades:        s.WinningTrades,
			LosingTrades:         s.LosingTrades,
			ConsecutiveWins:      s.ConsecutiveWins,
			ConsecutiveLosses:    s.ConsecutiveLosses,
			MaxConsecutiveWins:   s.MaxConsecutiveWins,
			MaxConsecutiveLosses: s.MaxConsecutiveLosses,
			DailyPnL:             s.DailyPnL,
			DailyTradeCount:      s.DailyTradeCount,
			LastResetDate:        s.LastResetDate,
		},
		TradeHistory: truncateHistory(s.TradeHistory, st.historyLimit),
		TierHistory:  s.TierHistory,
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorCategoryState, "state", "Save")
	}
	return data, nil
}

// Load restores a state from its JSON document form, rejecting payloads
// whose tier label is unrecognized or whose counters are negative.
func (st *Store) Load(data []byte) (*performance.State, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapError(err, errors.ErrorCategoryState, "state", "Load")
	}

	level, err := tier.ParseLevel(doc.ActiveTier)
	if err != nil {
		return nil, errors.NewCorruptStateError("state", "Load",
			fmt.Sprintf("unrecognized active_tier %q", doc.ActiveTier))
	}
	if doc.Statistics.TotalTrades < 0 {
		return nil, errors.NewCorruptStateError("state", "Load",
			fmt.Sprintf("negative total_trades %d", doc.Statistics.TotalTrades))
	}
	if doc.Statistics.WinningTrades < 0 || doc.Statistics.LosingTrades < 0 {
		return nil, errors.NewCorruptStateError("state", "Load", "negative win/loss counters")
	}

	// Tier history labels round-trip as strings; rebuild the levels.
	tierHistory := make([]performance.TierChange, 0, len(doc.TierHistory))
	for _, change := range doc.TierHistory {
		l, err := tier.ParseLevel(change.Label)
		if err != nil {
			return nil, errors.NewCorruptStateError("state", "Load",
				fmt.Sprintf("unrecognized tier %q in tier_history", change.Label))
		}
		change.Level = l
		tierHistory = append(tierHistory, change)
	}

	s := &performance.State{
		InitialCapital:       doc.InitialCapital,
		CurrentCapital:       doc.CurrentCapital,
		ActiveTier:           level,
		TradeHistory:         doc.TradeHistory,
		TierHistory:          tierHistory,
		TotalTrades:          doc.Statistics.TotalTrades,
		WinningTrades:        doc.Statistics.WinningTrades,
		LosingTrades:         doc.Statistics.LosingTrades,
		ConsecutiveWins:      doc.Statistics.ConsecutiveWins,
		ConsecutiveLosses:    doc.Statistics.ConsecutiveLosses,
		MaxConsecutiveWins:   doc.Statistics.MaxConsecutiveWins,
		MaxConsecutiveLosses: doc.Statistics.MaxConsecutiveLosses,
		DailyPnL:             doc.Statistics.DailyPnL,
		DailyTradeCount:      doc.Statistics.DailyTradeCount,
		LastResetDate:        doc.Statistics.LastResetDate,
	}
	return s, nil
}

// SaveFile writes the state document to path via a temporary file and
// an atomic rename, so a crash mid-write cannot corrupt the previously
// durable document.
func (st *Store) SaveFile(s *performance.State, path string) error {
	data, err := st.Save(s)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.WrapError(err, errors.ErrorCategoryState, "state", "SaveFile")
		}
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return errors.WrapError(err, errors.ErrorCategoryState, "state", "SaveFile")
	}
	if err := os.Rename(tempFile, path); err != nil {
		return errors.WrapError(err, errors.ErrorCategoryState, "state", "SaveFile")
	}
	return nil
}

// LoadFile reads and restores a state document from path.
func (st *Store) LoadFile(path string) (*performance.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorCategoryState, "state", "LoadFile")
	}
	return st.Load(data)
}

func truncateHistory(history []types.TradeOutcome, limit int) []types.TradeOutcome {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
