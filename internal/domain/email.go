// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package domain

import "context"

// SubmissionNotification contains the data rendered into the notification
// email sent after a submission is persisted. All text fields are
// user-supplied and must be escaped by the renderer.
type SubmissionNotification struct {
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   string
	VideoURL  string // empty when the submission had no attachment
}

// EmailService defines the interface for sending emails
type EmailService interface {
	SendSubmissionNotification(ctx context.Context, notification SubmissionNotification) error
}
