// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

// Package messaging publishes submission lifecycle messages to NATS for the
// downstream indexer. All publishing is best-effort from the pipeline's
// point of view.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"

	"github.com/filmfolio/contact-intake-service/internal/domain/models"
	"github.com/filmfolio/contact-intake-service/internal/logging"
)

// INatsConn is a NATS connection interface needed for the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// publish sends the message to the NATS server.
func (m *MessageBuilder) publish(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// sendIndexerMessage sends the message to the NATS server for the indexer.
func (m *MessageBuilder) sendIndexerMessage(ctx context.Context, subject string, action models.MessageAction, data []byte, tags []string) error {
	// The data should be a JSON object.
	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling data into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	// Decode the JSON data into a map[string]any since that is what the indexer expects.
	var payload any
	config := mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &payload,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		slog.ErrorContext(ctx, "error creating decoder", logging.ErrKey, err, "subject", subject)
		return err
	}
	if err := decoder.Decode(jsonData); err != nil {
		slog.ErrorContext(ctx, "error decoding data", logging.ErrKey, err, "subject", subject)
		return err
	}

	message := models.SubmissionIndexerMessage{
		Action:  action,
		Headers: map[string]string{},
		Data:    payload,
		Tags:    tags,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "constructed indexer message",
		"subject", subject,
		"action", action,
		"tags_count", len(tags),
	)

	return m.publish(ctx, subject, messageBytes)
}

// SendIndexSubmission sends the message to the NATS server for the submission indexing.
func (m *MessageBuilder) SendIndexSubmission(ctx context.Context, action models.MessageAction, data models.Submission) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling submission into JSON", logging.ErrKey, err)
		return err
	}
	return m.sendIndexerMessage(ctx, models.IndexSubmissionSubject, action, dataBytes, data.Tags())
}
