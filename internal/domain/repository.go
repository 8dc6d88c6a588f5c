// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

// Package domain contains the core types and ports of the contact intake
// pipeline. Infrastructure packages provide the implementations.
package domain

import (
	"context"

	"github.com/filmfolio/contact-intake-service/internal/domain/models"
)

// SubmissionRepository is the port for persisting contact-form submissions.
// The store is append-only: the pipeline never updates or deletes records.
type SubmissionRepository interface {
	// Save persists the submission and returns the assigned document ID.
	Save(ctx context.Context, submission *models.Submission) (string, error)
	// IsReady reports whether the underlying store is reachable.
	IsReady(ctx context.Context) error
}
