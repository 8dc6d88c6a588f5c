// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/filmfolio/contact-intake-service/internal/domain"
	"github.com/filmfolio/contact-intake-service/internal/logging"
)

// NoOpService is a no-operation email service that logs but doesn't send emails
type NoOpService struct{}

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// SendSubmissionNotification logs the notification but doesn't send an email
func (s *NoOpService) SendSubmissionNotification(ctx context.Context, notification domain.SubmissionNotification) error {
	ctx = logging.AppendCtx(ctx, slog.String("sender_email", notification.Email))

	slog.DebugContext(ctx, "email service disabled, skipping submission notification email")
	return nil
}
