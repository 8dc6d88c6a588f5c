// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

// Package main is the contact intake API. It accepts contact-form
// submissions with optional video attachments, publishes the attachment to
// the media host, persists the submission to the document store and sends a
// notification email.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/filmfolio/contact-intake-service/internal/domain"
	"github.com/filmfolio/contact-intake-service/internal/handlers"
	"github.com/filmfolio/contact-intake-service/internal/infrastructure/messaging"
	"github.com/filmfolio/contact-intake-service/internal/infrastructure/staging"
	"github.com/filmfolio/contact-intake-service/internal/logging"
	"github.com/filmfolio/contact-intake-service/internal/service"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Connect to the document store.
	mongoClient, repository, err := setupMongo(ctx, env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error connecting to the document store")
		os.Exit(1)
	}

	// Media publishing (optional, disables attachments when missing).
	publisher, err := setupMediaPublisher(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up media publisher")
		os.Exit(1)
	}

	// Notification email (independent of the other subsystems).
	emailService, err := setupEmailService(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		os.Exit(1)
	}

	// NATS connection for best-effort submission indexing (optional).
	natsConn, err := setupNATS(env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		os.Exit(1)
	}
	var messageBuilder domain.MessageBuilder
	if natsConn != nil {
		messageBuilder = messaging.NewMessageBuilder(natsConn)
	}

	stager := staging.New(staging.Config{
		Mode:         env.Staging.Mode,
		Dir:          env.Staging.Dir,
		MaxSize:      env.Staging.MaxAttachmentSize,
		AllowedTypes: env.Staging.AllowedMediaTypes,
	})

	submissionService := service.NewSubmissionService(
		stager,
		publisher,
		repository,
		emailService,
		messageBuilder,
		service.ServiceConfig{
			AllowClientMediaURL: env.AllowClientMediaURL,
		},
	)

	contactHandler := handlers.NewContactHandler(submissionService, publisher, stager.MaxSize())

	httpServer := setupHTTPServer(flags, env, contactHandler, &gracefulCloseWG)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, mongoClient, &gracefulCloseWG, cancel)
}

// gracefulShutdown drains in-flight requests and closes the external
// connections before exiting.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, mongoClient *mongo.Client, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("http server shutdown error")
	}
	gracefulCloseWG.Done()

	if natsConn != nil && !natsConn.IsClosed() {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("NATS drain error")
		}
	}

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("document store disconnect error")
	}

	cancel()
	gracefulCloseWG.Wait()
	slog.Info("shutdown complete")
}
