package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"

	"newsreel/internal/resilience/circuitbreaker"
)

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

// ProviderHealthResponse reports per-provider circuit state. An open
// circuit marks the response unhealthy but runs keep working through the
// fallback chain, so the endpoint always answers 200.
type ProviderHealthResponse struct {
	Healthy   bool             `json:"healthy"`
	Providers []ProviderStatus `json:"providers"`
}

// ProviderStatus is one provider's circuit state.
type ProviderStatus struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// startMetricsServer starts the Prometheus metrics HTTP server in a
// background goroutine and shuts it down when ctx is cancelled.
//
// Endpoints:
//   - GET /metrics - Prometheus metrics
//   - GET /health - liveness probe (always 200)
//   - GET /health/providers - per-provider circuit breaker state
//
// METRICS_PORT selects the port (default 9090).
func startMetricsServer(ctx context.Context, logger *slog.Logger, breakers *circuitbreaker.Registry) *http.Server {
	port := getMetricsPort()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/health/providers", providerHealthHandler(breakers))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Info("metrics server shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
		} else {
			logger.Info("metrics server stopped")
		}
	}()

	return server
}

// getMetricsPort reads METRICS_PORT, defaulting to 9090 on unset or
// invalid values.
func getMetricsPort() int {
	portStr := os.Getenv("METRICS_PORT")
	if portStr == "" {
		return 9090
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 9090
	}

	return port
}

// healthHandler handles GET /health (liveness probe).
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{Status: "healthy"})
}

// providerHealthHandler creates the GET /health/providers handler.
// Providers whose circuit has never been exercised are absent.
func providerHealthHandler(breakers *circuitbreaker.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		states := breakers.States()

		names := make([]string, 0, len(states))
		for name := range states {
			names = append(names, name)
		}
		sort.Strings(names)

		providers := make([]ProviderStatus, 0, len(names))
		healthy := true
		for _, name := range names {
			providers = append(providers, ProviderStatus{
				Name:  name,
				State: states[name].String(),
			})
			if states[name] == gobreaker.StateOpen {
				healthy = false
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(ProviderHealthResponse{
			Healthy:   healthy,
			Providers: providers,
		})
	}
}
