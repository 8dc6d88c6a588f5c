// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"mime/multipart"

	"github.com/stretchr/testify/mock"

	"github.com/filmfolio/contact-intake-service/internal/domain"
)

// MockAttachmentStager implements AttachmentStager for testing
type MockAttachmentStager struct {
	mock.Mock
}

func (m *MockAttachmentStager) Stage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.Attachment, error) {
	args := m.Called(ctx, file, header)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}
