// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

// Package service contains the submission pipeline orchestration.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/filmfolio/contact-intake-service/internal/domain"
	"github.com/filmfolio/contact-intake-service/internal/domain/models"
	"github.com/filmfolio/contact-intake-service/internal/logging"
)

const (
	// saveTimeout bounds the document store write.
	saveTimeout = 10 * time.Second
	// notifyTimeout bounds the notification email dispatch across all
	// recipients.
	notifyTimeout = 30 * time.Second
)

// ServiceConfig holds the feature configuration of the pipeline.
type ServiceConfig struct {
	// AllowClientMediaURL enables the optional mode where a caller-supplied
	// videoUrl field is accepted when no file is attached. Off by default,
	// so the default pipeline has exactly one write path for media URLs.
	AllowClientMediaURL bool
}

// SubmissionService sequences one contact-form submission through
// staging, media publishing, persistence and notification. It is the only
// place that decides which stage failures are fatal to the request:
// staging, publishing and persistence failures are; indexing and
// notification failures are logged and the request still succeeds.
type SubmissionService struct {
	stager         domain.AttachmentStager
	publisher      domain.MediaPublisher
	repository     domain.SubmissionRepository
	emailService   domain.EmailService
	messageBuilder domain.MessageBuilder
	config         ServiceConfig
}

// NewSubmissionService creates a new SubmissionService. The publisher and
// messageBuilder may be nil when those subsystems are not configured; the
// emailService must at least be a no-op implementation.
func NewSubmissionService(
	stager domain.AttachmentStager,
	publisher domain.MediaPublisher,
	repository domain.SubmissionRepository,
	emailService domain.EmailService,
	messageBuilder domain.MessageBuilder,
	config ServiceConfig,
) *SubmissionService {
	return &SubmissionService{
		stager:         stager,
		publisher:      publisher,
		repository:     repository,
		emailService:   emailService,
		messageBuilder: messageBuilder,
		config:         config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *SubmissionService) ServiceReady() bool {
	return s.stager != nil && s.repository != nil && s.emailService != nil
}

// SubmitContact runs the pipeline for one inbound submission.
func (s *SubmissionService) SubmitContact(ctx context.Context, req *models.SubmitContactRequest) (*models.SubmitContactResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("submission service is not ready")
	}

	if req == nil {
		return nil, domain.NewValidationError("request is nil")
	}
	if msg := req.Validate(); msg != "" {
		return nil, domain.NewValidationError(msg)
	}

	ctx = logging.AppendCtx(ctx, slog.String("sender_email", req.Email))

	var videoURL *string
	var assetID string

	if req.HasAttachment() {
		attachment, err := s.stager.Stage(ctx, req.File, req.FileHeader)
		if err != nil {
			return nil, err
		}
		// The staged storage is released on every exit path from here on,
		// including client disconnects.
		defer func() {
			if err := attachment.Release(); err != nil {
				slog.ErrorContext(ctx, "failed to release staged attachment", logging.ErrKey, err)
			}
		}()

		if s.publisher == nil {
			return nil, domain.NewUnavailableError("media publisher is not configured")
		}

		result, err := s.publisher.Publish(ctx, attachment)
		if err != nil {
			// Failing fast: a submission that came with a file is never
			// persisted without its media URL.
			return nil, err
		}
		videoURL = &result.URL
		assetID = result.AssetID
	} else if s.config.AllowClientMediaURL && req.ClientVideoURL != "" {
		videoURL = &req.ClientVideoURL
	}

	submission := &models.Submission{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		VideoURL:  videoURL,
	}

	saveCtx, cancelSave := context.WithTimeout(ctx, saveTimeout)
	id, err := s.repository.Save(saveCtx, submission)
	cancelSave()
	if err != nil {
		if assetID != "" {
			// The published asset is now orphaned. No compensating delete
			// is performed; surface the asset ID so it can be cleaned up.
			slog.ErrorContext(ctx, "submission persistence failed after media publish, asset orphaned",
				logging.ErrKey, err, logging.PriorityCritical(), "asset_id", assetID)
		}
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String("submission_id", id))

	// The submission is the durable source of truth. Indexing and email are
	// best-effort from here on.
	if s.messageBuilder != nil {
		if err := s.messageBuilder.SendIndexSubmission(ctx, models.ActionCreated, *submission); err != nil {
			slog.ErrorContext(ctx, "failed to publish submission indexing message", logging.ErrKey, err)
		}
	}

	notification := domain.SubmissionNotification{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
	}
	if videoURL != nil {
		notification.VideoURL = *videoURL
	}

	notifyCtx, cancelNotify := context.WithTimeout(ctx, notifyTimeout)
	defer cancelNotify()

	notificationSent := true
	if err := s.emailService.SendSubmissionNotification(notifyCtx, notification); err != nil {
		notificationSent = false
		slog.ErrorContext(ctx, "failed to send submission notification", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "submission completed",
		"has_video", videoURL != nil,
		"notification_sent", notificationSent,
	)

	return &models.SubmitContactResult{
		ID:               id,
		VideoURL:         videoURL,
		NotificationSent: notificationSent,
	}, nil
}

// Readiness reports whether the pipeline's required dependencies are
// reachable. Used by the readiness probe.
func (s *SubmissionService) Readiness(ctx context.Context) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("submission service is not ready")
	}
	return s.repository.IsReady(ctx)
}
