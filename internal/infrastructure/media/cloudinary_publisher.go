// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

// Package media wraps the external media host. Publishing is a single
// attempt under a bounded timeout; the provider assigns a new asset
// identity per attempt, so callers must not retry assuming partial state.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/filmfolio/contact-intake-service/internal/domain"
	"github.com/filmfolio/contact-intake-service/internal/logging"
)

const (
	// DefaultUploadTimeout bounds a single publish attempt.
	DefaultUploadTimeout = 120 * time.Second

	// DefaultFolder is the provider-side namespace for contact videos.
	DefaultFolder = "contact-videos"

	// uploadChunkSize matches the provider's chunked upload size for large
	// video files (6MB).
	uploadChunkSize = 6_000_000

	// resourceTypeVideo is the provider classification for uploads.
	resourceTypeVideo = "video"
)

// tracerName is the instrumentation name for the media package.
const tracerName = "github.com/filmfolio/contact-intake-service/internal/infrastructure/media"

// Config holds the Cloudinary publisher configuration.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// Folder is the logical namespace assets are published under.
	Folder string
	// Eager is an optional derivative transformation passed through to the
	// provider (e.g. thumbnail generation). The publisher itself performs
	// no content transformation.
	Eager string
	// UploadTimeout bounds a single publish attempt.
	UploadTimeout time.Duration
}

// CloudinaryPublisher implements domain.MediaPublisher using Cloudinary.
type CloudinaryPublisher struct {
	cld    *cloudinary.Cloudinary
	config Config
}

// NewCloudinaryPublisher creates a new publisher from credentials.
func NewCloudinaryPublisher(config Config) (*CloudinaryPublisher, error) {
	if config.CloudName == "" || config.APIKey == "" || config.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are not fully configured")
	}
	if config.Folder == "" {
		config.Folder = DefaultFolder
	}
	if config.UploadTimeout <= 0 {
		config.UploadTimeout = DefaultUploadTimeout
	}

	cld, err := cloudinary.NewFromParams(config.CloudName, config.APIKey, config.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	cld.Config.API.ChunkSize = uploadChunkSize

	return &CloudinaryPublisher{cld: cld, config: config}, nil
}

// Publish uploads the staged attachment as a video asset and returns its
// durable public URL. One attempt only.
func (p *CloudinaryPublisher) Publish(ctx context.Context, attachment *domain.Attachment) (*domain.PublishResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "cloudinary.upload",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("media.provider", "cloudinary"),
			attribute.String("media.folder", p.config.Folder),
			attribute.Int64("media.size", attachment.Size),
		),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.config.UploadTimeout)
	defer cancel()

	reader, err := attachment.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	ctx = logging.AppendCtx(ctx, slog.String("file_name", attachment.FileName))
	slog.DebugContext(ctx, "uploading attachment to media host", "size", attachment.Size)

	result, err := p.cld.Upload.Upload(ctx, reader, uploader.UploadParams{
		Folder:       p.config.Folder,
		ResourceType: resourceTypeVideo,
		Eager:        p.config.Eager,
	})
	if err != nil {
		slog.ErrorContext(ctx, "media upload failed", logging.ErrKey, err)
		if errors.Is(err, context.DeadlineExceeded) {
			err = domain.NewUploadError(
				fmt.Sprintf("media upload timed out after %s", p.config.UploadTimeout), err)
		} else {
			err = domain.NewUploadError("media upload failed", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if result.SecureURL == "" {
		// The SDK reports some provider-side rejections in the result body
		// rather than as an error.
		err = domain.NewUploadError("media host rejected the upload", fmt.Errorf("%s", result.Error.Message))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	slog.InfoContext(ctx, "uploaded attachment to media host",
		"public_id", result.PublicID, "url", result.SecureURL)

	return &domain.PublishResult{
		URL:     result.SecureURL,
		AssetID: result.PublicID,
	}, nil
}

// SignUploadRequest computes a time-limited signed credential for
// client-side direct-to-provider uploads into the configured folder.
func (p *CloudinaryPublisher) SignUploadRequest(now time.Time) (*domain.UploadSignature, error) {
	timestamp := now.Unix()

	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	params.Set("folder", p.config.Folder)

	signature, err := api.SignParameters(params, p.config.APISecret)
	if err != nil {
		return nil, domain.NewInternalError("failed to sign upload request", err)
	}

	return &domain.UploadSignature{
		Timestamp: timestamp,
		Signature: signature,
		CloudName: p.config.CloudName,
		APIKey:    p.config.APIKey,
	}, nil
}

// DeleteAsset removes a published asset by its provider public ID.
func (p *CloudinaryPublisher) DeleteAsset(ctx context.Context, assetID string) error {
	result, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     assetID,
		ResourceType: resourceTypeVideo,
	})
	if err != nil {
		return domain.NewUploadError("failed to delete media asset", err)
	}
	if result.Result != "ok" {
		return domain.NewUploadError(fmt.Sprintf("media host refused asset deletion: %s", result.Result))
	}
	return nil
}
