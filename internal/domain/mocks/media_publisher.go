// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/filmfolio/contact-intake-service/internal/domain"
)

// MockMediaPublisher implements MediaPublisher for testing
type MockMediaPublisher struct {
	mock.Mock
}

func (m *MockMediaPublisher) Publish(ctx context.Context, attachment *domain.Attachment) (*domain.PublishResult, error) {
	args := m.Called(ctx, attachment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishResult), args.Error(1)
}

func (m *MockMediaPublisher) SignUploadRequest(now time.Time) (*domain.UploadSignature, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSignature), args.Error(1)
}

func (m *MockMediaPublisher) DeleteAsset(ctx context.Context, assetID string) error {
	args := m.Called(ctx, assetID)
	return args.Error(0)
}
