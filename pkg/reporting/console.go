package reporting

import (
	"fmt"
	"strings"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/performance"
)

// ConsoleReporter prints session summaries to stdout.
type ConsoleReporter struct{}

// NewConsoleReporter creates a console reporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// PrintSummary prints the session performance summary.
func (r *ConsoleReporter) PrintSummary(s *performance.State) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("📊 TIER ENGINE SESSION SUMMARY")
	fmt.Println(strings.Repeat("=", 50))

	fmt.Printf("💰 Initial Capital:    %.2f\n", s.InitialCapital)
	fmt.Printf("💰 Current Capital:    %.2f\n", s.CurrentCapital)

	growth := 0.0
	if s.InitialCapital > 0 {
		growth = (s.CurrentCapital - s.InitialCapital) / s.InitialCapital * 100
	}
	fmt.Printf("📈 Total Return:       %.2f%%\n", growth)
	fmt.Printf("🏷️  Active Tier:        %s\n", s.ActiveTier)
	fmt.Printf("🔄 Total Trades:       %d\n", s.TotalTrades)

	winRate := 0.0
	if s.TotalTrades > 0 {
		winRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
	}
	fmt.Printf("✅ Winning Trades:     %d (%.1f%%)\n", s.WinningTrades, winRate)
	fmt.Printf("❌ Losing Trades:      %d\n", s.LosingTrades)
	fmt.Printf("🔥 Best Win Streak:    %d\n", s.MaxConsecutiveWins)
	fmt.Printf("🧊 Worst Loss Streak:  %d\n", s.MaxConsecutiveLosses)
	fmt.Printf("📅 Daily P&L:          %+.2f (%d trades)\n", s.DailyPnL, s.DailyTradeCount)
	fmt.Printf("📉 Drawdown:           %.2f%%\n", s.Drawdown()*100)
	fmt.Printf("🎚️  Tier Changes:       %d\n", len(s.TierHistory)-1)
}
