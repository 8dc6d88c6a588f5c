// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filmfolio/contact-intake-service/internal/domain"
	"github.com/filmfolio/contact-intake-service/internal/infrastructure/email"
	"github.com/filmfolio/contact-intake-service/internal/infrastructure/media"
	"github.com/filmfolio/contact-intake-service/internal/infrastructure/store"
	"github.com/filmfolio/contact-intake-service/internal/logging"
)

// setupMongo connects to the document store and builds the submission
// repository on top of it.
func setupMongo(ctx context.Context, env environment) (*mongo.Client, *store.MongoSubmissionRepository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(env.MongoDB.URI))
	if err != nil {
		return nil, nil, err
	}

	return client, store.NewMongoSubmissionRepository(client, env.MongoDB.Database), nil
}

// setupMediaPublisher builds the Cloudinary publisher when credentials are
// configured. Without credentials the service runs in text-only mode and
// submissions with attachments are refused.
func setupMediaPublisher(env environment) (domain.MediaPublisher, error) {
	if !env.Cloudinary.Configured() {
		slog.Warn("media host credentials not configured, attachments disabled")
		return nil, nil
	}

	return media.NewCloudinaryPublisher(media.Config{
		CloudName:     env.Cloudinary.CloudName,
		APIKey:        env.Cloudinary.APIKey,
		APISecret:     env.Cloudinary.APISecret,
		Folder:        env.Cloudinary.Folder,
		Eager:         env.Cloudinary.Eager,
		UploadTimeout: env.Cloudinary.UploadTimeout,
	})
}

// setupEmailService builds the SMTP notification service, falling back to a
// no-op implementation when SMTP is not configured.
func setupEmailService(env environment) (domain.EmailService, error) {
	if !env.SMTP.Configured() {
		slog.Warn("SMTP not configured, submission notifications disabled")
		return email.NewNoOpService(), nil
	}

	return email.NewSMTPService(email.SMTPConfig{
		Host:       env.SMTP.Host,
		Port:       env.SMTP.Port,
		From:       env.SMTP.From,
		Username:   env.SMTP.Username,
		Password:   env.SMTP.Password,
		Recipients: env.SMTP.Recipients,
	})
}

// setupNATS connects to NATS for best-effort submission indexing messages.
// NATS is optional: without a URL the service runs without indexing.
func setupNATS(env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	if env.NATSURL == "" {
		slog.Info("NATS_URL not set, submission indexing disabled")
		return nil, nil
	}

	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NATSURL,
		nats.DrainTimeout(10*time.Second),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NATSURL).Info("NATS connection established")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			slog.With(logging.ErrKey, err).Error("NATS error")
		}),
		nats.ClosedHandler(func(conn *nats.Conn) {
			slog.With("nats_url", conn.ConnectedUrl()).Info("NATS connection closed")
			gracefulCloseWG.Done()
			// Trigger shutdown if the connection closed outside of one.
			select {
			case done <- os.Interrupt:
			default:
			}
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	return natsConn, nil
}
