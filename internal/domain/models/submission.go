// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

// Package models contains the data types persisted and exchanged by the
// contact intake service.
package models

import (
	"mime/multipart"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission is the persisted contact-form record. The document is written
// exactly once per successful pipeline run and never mutated afterwards.
type Submission struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject" json:"subject"`
	Message   string             `bson:"message" json:"message"`
	// VideoURL is set only when an attachment was supplied and the media
	// publisher succeeded; nil otherwise.
	VideoURL *string `bson:"videoUrl" json:"videoUrl"`
	// CreatedAt is server-assigned at write time.
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Tags generates a list of tags for the submission indexing message.
func (s *Submission) Tags() []string {
	tags := []string{}

	if !s.ID.IsZero() {
		tags = append(tags, s.ID.Hex())
	}
	if s.Email != "" {
		tags = append(tags, s.Email)
	}
	if s.Subject != "" {
		tags = append(tags, s.Subject)
	}

	return tags
}

// SubmitContactRequest carries one inbound contact-form submission through
// the pipeline. File and FileHeader are nil when no attachment was sent.
type SubmitContactRequest struct {
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   string

	// ClientVideoURL is a caller-supplied media URL. It is honored only when
	// the client-media-URL mode is enabled and no file was attached.
	ClientVideoURL string

	File       multipart.File
	FileHeader *multipart.FileHeader
}

// HasAttachment reports whether the request carries an uploaded file.
func (r *SubmitContactRequest) HasAttachment() bool {
	return r.File != nil && r.FileHeader != nil
}

// Validate checks the required fields of the request.
func (r *SubmitContactRequest) Validate() string {
	if strings.TrimSpace(r.Email) == "" {
		return "email is required"
	}
	if !strings.Contains(r.Email, "@") {
		return "email address is not valid"
	}
	if strings.TrimSpace(r.Message) == "" {
		return "message is required"
	}
	return ""
}

// SubmitContactResult is the pipeline outcome for a successful run.
type SubmitContactResult struct {
	ID       string
	VideoURL *string
	// NotificationSent is false when the submission was persisted but the
	// notification email could not be dispatched.
	NotificationSent bool
}
