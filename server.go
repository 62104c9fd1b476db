package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"reaper-cleaner/internal/handlers"
	"reaper-cleaner/internal/logging"
	"reaper-cleaner/internal/middleware"
	"reaper-cleaner/internal/startup"
)

// startMetricsServer serves the metrics router in the background and
// returns a function that shuts it down.
func startMetricsServer(port string, status *handlers.Status) func() {
	router := handlers.NewRouter(handlers.New(status))
	router.Use(middleware.Metrics())
	startup.LogHTTPRoutes(router, port)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           middleware.Logger(middleware.DefaultLoggingConfig())(router),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Metrics server error: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		}
	}
}
