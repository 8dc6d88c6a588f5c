// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/filmfolio/contact-intake-service/internal/domain/models"
)

// MessageBuilder is the port for publishing submission lifecycle messages
// to the message bus for downstream indexing. Publishing is best-effort:
// a failure never fails the request that triggered it.
type MessageBuilder interface {
	SendIndexSubmission(ctx context.Context, action models.MessageAction, data models.Submission) error
}
