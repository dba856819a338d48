package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/performance"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/tier"
)

// PrintCatalogue renders the tier table with its numeric parameters,
// marking the active tier.
func PrintCatalogue(catalogue *tier.Catalogue, active tier.Level) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("RISK TIER CATALOGUE")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Rank", "Tier", "Size Min", "Size Max", "Stop Loss", "Take Profit", "Min Conf", "Pairs"})

	for _, level := range catalogue.Levels() {
		cfg, err := catalogue.Get(level)
		if err != nil {
			continue
		}
		label := cfg.Label
		if level == active {
			label = "▶ " + label
		}
		t.AppendRow(table.Row{
			int(level),
			label,
			fmt.Sprintf("%.0f%%", cfg.PositionSizeMin*100),
			fmt.Sprintf("%.0f%%", cfg.PositionSizeMax*100),
			fmt.Sprintf("%.1f%%", cfg.StopLossFraction*100),
			fmt.Sprintf("%.1f%%", cfg.TakeProfitFraction*100),
			fmt.Sprintf("%.2f", cfg.ConfidenceThreshold),
			cfg.TargetPairCount,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignCenter},
		{Number: 2, WidthMin: 11, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintRecentTrades renders the most recent n trade outcomes.
func PrintRecentTrades(s *performance.State, n int) {
	history := s.TradeHistory
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("RECENT TRADES")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Time", "Pair", "Side", "P&L", "Tier"})
	for _, o := range history {
		result := "❌"
		if o.IsWin() {
			result = "✅"
		}
		t.AppendRow(table.Row{
			o.Timestamp.Format("2006-01-02 15:04"),
			o.Pair,
			string(o.Side),
			fmt.Sprintf("%s %+.2f", result, o.PnL),
			o.TierLabel,
		})
	}

	t.Render()
	fmt.Println()
}

// PrintTierHistory renders the tier transition history.
func PrintTierHistory(s *performance.State) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("TIER HISTORY")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Time", "Tier"})
	for _, change := range s.TierHistory {
		t.AppendRow(table.Row{
			change.Timestamp.Format("2006-01-02 15:04"),
			change.Label,
		})
	}

	t.Render()
	fmt.Println()
}
