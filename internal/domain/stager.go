// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"mime/multipart"
)

// AttachmentStager validates an uploaded file and makes it available as a
// staged Attachment. Stage fails with a validation error when the declared
// media type is not allowed or the size exceeds the configured ceiling; in
// that case no transient storage is left behind.
type AttachmentStager interface {
	Stage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*Attachment, error)
}
