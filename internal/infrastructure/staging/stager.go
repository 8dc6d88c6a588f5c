// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

// Package staging validates uploaded files and stages them in transient
// storage (a temp file on disk or an in-memory buffer) for publishing.
package staging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"strings"

	"github.com/filmfolio/contact-intake-service/internal/domain"
	"github.com/filmfolio/contact-intake-service/internal/logging"
)

// Mode selects the backing storage for staged attachments.
type Mode string

const (
	// ModeDisk stages attachments in temporary files. This is the default:
	// it keeps memory usage flat regardless of attachment size.
	ModeDisk Mode = "disk"
	// ModeMemory stages attachments in memory. Useful on hosts with an
	// ephemeral or read-only filesystem.
	ModeMemory Mode = "memory"
)

const (
	// DefaultMaxSize is the default attachment size ceiling (75MB).
	DefaultMaxSize = 75 * 1024 * 1024
)

// DefaultAllowedTypes is the default set of accepted media type prefixes.
var DefaultAllowedTypes = []string{"video/"}

// Config holds the stager configuration.
type Config struct {
	Mode Mode
	// Dir is the directory for temp files in disk mode. Empty means the
	// OS default temp directory.
	Dir string
	// MaxSize is the attachment size ceiling in bytes.
	MaxSize int64
	// AllowedTypes is the list of accepted media type prefixes, compared
	// against the declared Content-Type of the file part.
	AllowedTypes []string
}

// Stager implements domain.AttachmentStager.
type Stager struct {
	config Config
}

// New creates a new Stager, applying defaults for zero-valued settings.
func New(config Config) *Stager {
	if config.Mode == "" {
		config.Mode = ModeDisk
	}
	if config.MaxSize <= 0 {
		config.MaxSize = DefaultMaxSize
	}
	if len(config.AllowedTypes) == 0 {
		config.AllowedTypes = DefaultAllowedTypes
	}
	return &Stager{config: config}
}

// MaxSize returns the configured attachment size ceiling in bytes.
func (s *Stager) MaxSize() int64 {
	return s.config.MaxSize
}

// Stage validates the uploaded file and copies it into transient storage.
// Validation failures and copy failures leave no storage behind.
func (s *Stager) Stage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.Attachment, error) {
	if file == nil || header == nil {
		return nil, domain.NewValidationError("no file provided")
	}

	contentType := header.Header.Get("Content-Type")
	if !s.typeAllowed(contentType) {
		return nil, domain.NewValidationError(
			fmt.Sprintf("file type %q is not allowed: accepted types are %s",
				contentType, strings.Join(s.config.AllowedTypes, ", ")))
	}

	if header.Size > s.config.MaxSize {
		return nil, domain.NewValidationError(
			fmt.Sprintf("file size %d exceeds maximum allowed size of %d bytes", header.Size, s.config.MaxSize))
	}

	ctx = logging.AppendCtx(ctx, slog.String("file_name", header.Filename))

	// Copy with a hard cap one byte past the ceiling so that an understated
	// declared size is still caught.
	limited := io.LimitReader(file, s.config.MaxSize+1)

	var attachment *domain.Attachment
	var err error
	switch s.config.Mode {
	case ModeMemory:
		attachment, err = s.stageMemory(limited, header, contentType)
	default:
		attachment, err = s.stageDisk(limited, header, contentType)
	}
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "staged attachment",
		"content_type", contentType,
		"size", attachment.Size,
		"mode", string(s.config.Mode),
	)

	return attachment, nil
}

func (s *Stager) stageDisk(src io.Reader, header *multipart.FileHeader, contentType string) (*domain.Attachment, error) {
	tmp, err := os.CreateTemp(s.config.Dir, "attachment-*.tmp")
	if err != nil {
		return nil, domain.NewInternalError("failed to create staging file", err)
	}

	written, err := io.Copy(tmp, src)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return nil, domain.NewInternalError("failed to stage attachment", err)
	}
	if written > s.config.MaxSize {
		_ = os.Remove(tmp.Name())
		return nil, domain.NewValidationError(
			fmt.Sprintf("file size exceeds maximum allowed size of %d bytes", s.config.MaxSize))
	}

	return domain.NewDiskAttachment(header.Filename, contentType, written, tmp.Name()), nil
}

func (s *Stager) stageMemory(src io.Reader, header *multipart.FileHeader, contentType string) (*domain.Attachment, error) {
	var buf bytes.Buffer
	written, err := io.Copy(&buf, src)
	if err != nil {
		return nil, domain.NewInternalError("failed to stage attachment", err)
	}
	if written > s.config.MaxSize {
		return nil, domain.NewValidationError(
			fmt.Sprintf("file size exceeds maximum allowed size of %d bytes", s.config.MaxSize))
	}

	return domain.NewMemoryAttachment(header.Filename, contentType, buf.Bytes()), nil
}

func (s *Stager) typeAllowed(contentType string) bool {
	for _, allowed := range s.config.AllowedTypes {
		if strings.HasPrefix(contentType, allowed) {
			return true
		}
	}
	return false
}
