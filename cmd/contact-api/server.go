// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filmfolio/contact-intake-service/internal/handlers"
	"github.com/filmfolio/contact-intake-service/internal/logging"
	"github.com/filmfolio/contact-intake-service/internal/middleware"
)

// setupHTTPServer configures and starts the HTTP server.
func setupHTTPServer(flags flags, env environment, contactHandler *handlers.ContactHandler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	router := chi.NewRouter()

	// Order matters: the request ID must be in the context before the
	// request logger runs.
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(env.CORSAllowedOrigin))
	router.Use(middleware.BodyLimitMiddleware(env.MaxBodySize))

	contactHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler())

	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
