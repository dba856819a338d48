package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/Cryptomalo/AurumBotX-sub003/internal/engine"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/monitoring"
	"github.com/Cryptomalo/AurumBotX-sub003/internal/state"
	"github.com/Cryptomalo/AurumBotX-sub003/pkg/reporting"
)

func main() {
	var (
		envFile     = flag.String("env", ".env", "Environment file path")
		configFile  = flag.String("config", "", "Engine config file (JSON), defaults used if empty")
		stateFile   = flag.String("state", "", "Persisted state file to inspect")
		capital     = flag.Float64("capital", 1000, "Initial capital for a fresh session")
		reportFile  = flag.String("report", "", "Write session history to an Excel workbook at this path")
		metricsAddr = flag.String("metrics-addr", "", "Serve /metrics and /health on this address (e.g. :9090)")
		showTrades  = flag.Int("trades", 10, "Number of recent trades to display")
	)
	flag.Parse()

	// Optional .env; state directories and ports commonly come from it.
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load env file %s: %v", *envFile, err)
	}
	if *stateFile == "" {
		*stateFile = os.Getenv("TIER_ENGINE_STATE")
	}

	cfg, err := loadConfig(*configFile, *capital)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	eng, err := buildEngine(cfg, *stateFile)
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	snapshot := eng.Snapshot()
	reporting.PrintCatalogue(eng.Catalogue(), snapshot.ActiveTier)
	reporting.NewConsoleReporter().PrintSummary(&snapshot)
	if len(snapshot.TradeHistory) > 0 {
		reporting.PrintRecentTrades(&snapshot, *showTrades)
	}
	if len(snapshot.TierHistory) > 1 {
		reporting.PrintTierHistory(&snapshot)
	}

	if *reportFile != "" {
		if err := reporting.NewExcelReporter().WriteSessionXLSX(&snapshot, *reportFile); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		fmt.Printf("📄 Session report written to %s\n", *reportFile)
	}

	if *metricsAddr != "" {
		serveMonitoring(eng, *metricsAddr)
	}
}

func loadConfig(path string, capital float64) (engine.Config, error) {
	if path == "" {
		return engine.DefaultConfig(capital), nil
	}
	return engine.LoadConfig(path, capital)
}

// buildEngine restores a persisted session when a state file exists,
// otherwise starts fresh. A corrupt state file is fatal here; operators
// decide explicitly whether to discard it.
func buildEngine(cfg engine.Config, stateFile string) (*engine.Engine, error) {
	if stateFile == "" {
		return engine.New(cfg)
	}

	if _, err := os.Stat(stateFile); os.IsNotExist(err) {
		log.Printf("No state file at %s, starting fresh session", stateFile)
		return engine.New(cfg)
	}

	st, err := state.NewStore().LoadFile(stateFile)
	if err != nil {
		return nil, fmt.Errorf("could not restore state from %s: %w", stateFile, err)
	}
	log.Printf("Restored session from %s (%d trades, tier %s)",
		stateFile, st.TotalTrades, st.ActiveTier)
	return engine.NewFromState(cfg, st)
}

func serveMonitoring(eng *engine.Engine, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	mux.Handle("/health", eng.Health())

	log.Printf("Serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Metrics server failed: %v", err)
	}
}
