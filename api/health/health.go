// Package health serves liveness and readiness probes for the lpoold gateway.
//
// Endpoints:
//   - /health - aggregated status of every registered check
//   - /health/live - process liveness
//   - /health/ready - readiness for load balancers
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult represents the result of an individual health check
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// CheckFunc is a function that performs a health check
type CheckFunc func(ctx context.Context) CheckResult

// HealthChecker runs registered checks and caches the aggregate for cacheTimeout.
type HealthChecker struct {
	version string
	logger  log.Logger

	mu             sync.RWMutex
	checks         map[string]CheckFunc
	checkTimeout   time.Duration
	cacheTimeout   time.Duration
	cachedResponse *HealthResponse
	lastCheck      time.Time
}

// NewHealthChecker creates a health checker. A zero cacheTimeout disables caching.
func NewHealthChecker(version string, cacheTimeout time.Duration, logger log.Logger) *HealthChecker {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &HealthChecker{
		version:      version,
		logger:       logger,
		checks:       make(map[string]CheckFunc),
		checkTimeout: 5 * time.Second,
		cacheTimeout: cacheTimeout,
	}
}

// RegisterCheck registers a new health check
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[name] = check
	hc.cachedResponse = nil
}

// PerformChecks runs all registered health checks
func (hc *HealthChecker) PerformChecks(ctx context.Context) *HealthResponse {
	hc.mu.RLock()
	if hc.cachedResponse != nil && time.Since(hc.lastCheck) < hc.cacheTimeout {
		cached := hc.cachedResponse
		hc.mu.RUnlock()
		return cached
	}
	checks := make(map[string]CheckFunc, len(hc.checks))
	for name, check := range hc.checks {
		checks[name] = check
	}
	hc.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, check := range checks {
		wg.Add(1)
		go func(n string, c CheckFunc) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, hc.checkTimeout)
			defer cancel()

			result := c(checkCtx)

			mu.Lock()
			results[n] = result
			mu.Unlock()
		}(name, check)
	}

	wg.Wait()

	response := &HealthResponse{
		Status:    overallStatus(results),
		Timestamp: time.Now(),
		Version:   hc.version,
		Checks:    results,
	}
	if response.Status != StatusHealthy {
		hc.logger.Warn("health check not passing", "status", response.Status)
	}

	hc.mu.Lock()
	hc.cachedResponse = response
	hc.lastCheck = time.Now()
	hc.mu.Unlock()

	return response
}

func overallStatus(results map[string]CheckResult) HealthStatus {
	status := StatusHealthy
	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// RegisterRoutes registers the health endpoints on router.
func (hc *HealthChecker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", hc.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/health/live", hc.LivenessHandler).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", hc.ReadinessHandler).Methods(http.MethodGet)
}

// HealthHandler returns overall health status
func (hc *HealthChecker) HealthHandler(w http.ResponseWriter, r *http.Request) {
	response := hc.PerformChecks(r.Context())

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, response)
}

// LivenessHandler is a simple liveness probe
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

// ReadinessHandler checks if the service is ready to accept traffic
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	response := hc.PerformChecks(r.Context())

	if response.Status == StatusUnhealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "not_ready",
			"reason":    response.Status,
			"timestamp": time.Now(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// InvariantCheck reports unhealthy while verify returns an error.
func InvariantCheck(verify func() error) CheckFunc {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		err := verify()
		latency := time.Since(start)

		if err != nil {
			return CheckResult{
				Status:  StatusUnhealthy,
				Message: "invariants broken: " + err.Error(),
				Latency: latency.String(),
			}
		}
		return CheckResult{
			Status:  StatusHealthy,
			Message: "invariants hold",
			Latency: latency.String(),
		}
	}
}

// StoreCheck reports degraded until the store has committed past its genesis version.
func StoreCheck(heightFunc func() int64) CheckFunc {
	return func(ctx context.Context) CheckResult {
		start := time.Now()

		height := heightFunc()
		if height == 0 {
			return CheckResult{
				Status:  StatusUnhealthy,
				Message: "store has no committed version",
				Latency: time.Since(start).String(),
			}
		}
		if height == 1 {
			return CheckResult{
				Status:  StatusDegraded,
				Message: "no operations committed since genesis",
				Latency: time.Since(start).String(),
			}
		}
		return CheckResult{
			Status:  StatusHealthy,
			Message: "store committed",
			Latency: time.Since(start).String(),
		}
	}
}
