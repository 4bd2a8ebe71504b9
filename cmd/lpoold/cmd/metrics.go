package cmd

import (
	"errors"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// startPrometheusServer serves /metrics on addr in the background. Listen errors after
// startup are logged, not fatal.
func startPrometheusServer(addr string, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("prometheus server error", "addr", addr, "err", err)
		}
	}()

	logger.Info("serving metrics", "addr", addr)
	return server
}
