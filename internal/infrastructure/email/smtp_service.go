// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filmfolio/contact-intake-service/internal/domain"
	"github.com/filmfolio/contact-intake-service/internal/logging"
	"github.com/filmfolio/contact-intake-service/pkg/concurrent"
)

// SMTPService implements the EmailService interface using SMTP
type SMTPService struct {
	config    SMTPConfig
	templates SubmissionTemplateManager
	pool      *concurrent.WorkerPool
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string // Optional for authenticated SMTP
	Password string // Optional for authenticated SMTP
	// Recipients are the addresses notified about new submissions.
	Recipients []string
}

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig) (*SMTPService, error) {
	if len(config.Recipients) == 0 && config.From != "" {
		// The original deployment notified the sending account itself.
		config.Recipients = []string{config.From}
	}

	templates, err := NewTemplateManager()
	if err != nil {
		return nil, err
	}

	return &SMTPService{
		config:    config,
		templates: templates,
		pool:      concurrent.NewWorkerPool(4),
	}, nil
}

// SendSubmissionNotification renders the notification once and dispatches it
// to every configured recipient. Any recipient failure fails the call.
func (s *SMTPService) SendSubmissionNotification(ctx context.Context, notification domain.SubmissionNotification) error {
	ctx = logging.AppendCtx(ctx, slog.String("sender_email", notification.Email))

	rendered, err := s.templates.RenderSubmissionNotification(NotificationData{
		FirstName: notification.FirstName,
		LastName:  notification.LastName,
		Email:     notification.Email,
		Subject:   notification.Subject,
		Message:   notification.Message,
		VideoURL:  notification.VideoURL,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render notification template", logging.ErrKey, err)
		return domain.NewNotificationError("failed to render notification email", err)
	}

	subject := fmt.Sprintf("New: %s", notification.Subject)

	var sends []func() error
	for _, recipient := range s.config.Recipients {
		recipient := recipient
		sends = append(sends, func() error {
			message := buildEmailMessage(recipient, subject, rendered.HTML, rendered.Text, s.config)
			return sendEmailMessage(ctx, recipient, message, s.config)
		})
	}

	if errs := s.pool.RunAll(ctx, sends...); len(errs) > 0 {
		slog.ErrorContext(ctx, "failed to send notification email",
			logging.ErrKey, errs[0], "failed_recipients", len(errs))
		return domain.NewNotificationError("failed to dispatch notification email", errs...)
	}

	slog.InfoContext(ctx, "notification email sent", "recipients", len(s.config.Recipients))
	return nil
}
