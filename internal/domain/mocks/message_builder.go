// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/filmfolio/contact-intake-service/internal/domain/models"
)

// MockMessageBuilder implements MessageBuilder for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendIndexSubmission(ctx context.Context, action models.MessageAction, data models.Submission) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}
