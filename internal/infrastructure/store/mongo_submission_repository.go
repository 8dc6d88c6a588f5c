// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

// Package store contains the document-store repositories of the contact
// intake service.
package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/filmfolio/contact-intake-service/internal/domain"
	"github.com/filmfolio/contact-intake-service/internal/domain/models"
	"github.com/filmfolio/contact-intake-service/internal/logging"
)

// CollectionNameSubmissions is the collection holding contact submissions.
const CollectionNameSubmissions = "contacts"

// tracerName is the instrumentation name for the store package.
const tracerName = "github.com/filmfolio/contact-intake-service/internal/infrastructure/store"

// MongoSubmissionRepository implements domain.SubmissionRepository on top of
// a MongoDB collection. Writes are append-only inserts.
type MongoSubmissionRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoSubmissionRepository creates a new submission repository.
func NewMongoSubmissionRepository(client *mongo.Client, database string) *MongoSubmissionRepository {
	return &MongoSubmissionRepository{
		client:     client,
		collection: client.Database(database).Collection(CollectionNameSubmissions),
	}
}

// Save persists the submission, assigning its ID and creation timestamp.
func (r *MongoSubmissionRepository) Save(ctx context.Context, submission *models.Submission) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "mongo.insert",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "mongodb"),
			attribute.String("db.operation", "insert"),
			attribute.String("db.mongodb.collection", CollectionNameSubmissions),
		),
	)
	defer span.End()

	if r.client == nil {
		err := domain.NewUnavailableError("submission repository is not available")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	// The creation timestamp is server-assigned and immutable.
	submission.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, submission)
	if err != nil {
		slog.ErrorContext(ctx, "error inserting submission into MongoDB", logging.ErrKey, err)
		if errors.Is(err, context.DeadlineExceeded) {
			err = domain.NewPersistenceError("timed out saving submission", err)
		} else {
			err = domain.NewPersistenceError("failed to save submission", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		err := domain.NewPersistenceError("store returned an unexpected document ID")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	submission.ID = oid

	slog.DebugContext(ctx, "saved submission", "submission_id", oid.Hex())
	return oid.Hex(), nil
}

// IsReady reports whether the MongoDB deployment is reachable.
func (r *MongoSubmissionRepository) IsReady(ctx context.Context) error {
	if r.client == nil {
		return domain.NewUnavailableError("submission repository is not available")
	}
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return domain.NewUnavailableError("document store is not reachable", err)
	}
	return nil
}
