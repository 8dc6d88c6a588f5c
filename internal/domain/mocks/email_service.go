// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/filmfolio/contact-intake-service/internal/domain"
)

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendSubmissionNotification(ctx context.Context, notification domain.SubmissionNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}
