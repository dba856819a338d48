package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker reports engine liveness for the /health endpoint.
type HealthChecker struct {
	mu         sync.RWMutex
	lastTrade  time.Time
	capital    float64
	activeTier string
	errors     []string
}

// HealthStatus is the JSON body served at /health.
type HealthStatus struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	LastTrade  time.Time `json:"last_trade"`
	Capital    float64   `json:"capital"`
	ActiveTier string    `json:"active_tier"`
	Uptime     string    `json:"uptime"`
	Errors     []string  `json:"errors,omitempty"`
}

// NewHealthChecker creates a health checker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// SetLastTrade records the time of the most recent trade outcome.
func (h *HealthChecker) SetLastTrade(t time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastTrade = t
}

// SetAccount records the current capital and active tier label.
func (h *HealthChecker) SetAccount(capital float64, tierLabel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.capital = capital
	h.activeTier = tierLabel
}

// AddError appends an error message to the health report.
func (h *HealthChecker) AddError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:     status,
		Timestamp:  time.Now(),
		LastTrade:  h.lastTrade,
		Capital:    h.capital,
		ActiveTier: h.activeTier,
		Uptime:     time.Since(startTime).String(),
		Errors:     h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
