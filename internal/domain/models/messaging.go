// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package models

// NATS subjects that the contact intake service sends messages about.
const (
	// IndexSubmissionSubject is the subject for the submission indexing.
	// The subject is of the form: contact.index.submission
	IndexSubmissionSubject = "contact.index.submission"
)

// MessageAction is a type for the action of a submission message.
type MessageAction string

// MessageAction constants for the action of a submission message.
const (
	// ActionCreated is the action for a resource creation message.
	ActionCreated MessageAction = "created"
)

// SubmissionIndexerMessage is the message schema for submission lifecycle
// messages published for the downstream indexer.
type SubmissionIndexerMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
	// Tags is a list of tags to be set on the indexed resource for search.
	Tags []string `json:"tags"`
}
