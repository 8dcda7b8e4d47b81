package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/TidalHarley/Morning-Tide/internal/app"
	"github.com/TidalHarley/Morning-Tide/internal/metrics"
)

func main() {
	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go serveMonitoring()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

// serveMonitoring exposes funnel counters and a health probe while a run is
// in flight. The process exits when the run does, so there is no shutdown
// handling here.
func serveMonitoring() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		stats := metrics.Global.GetStats()
		status := "ok"
		if healthy, ok := stats["is_healthy"].(bool); ok && !healthy {
			status = "error"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		writeJSON(w, map[string]interface{}{
			"status":     status,
			"last_run":   stats["last_run_time"],
			"last_error": stats["last_error"],
		})
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, metrics.Global.GetStats())
	})

	log.Printf("monitoring server listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Printf("monitoring server stopped: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
