// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/filmfolio/contact-intake-service/internal/domain/models"
)

// MockSubmissionRepository implements SubmissionRepository for testing
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Save(ctx context.Context, submission *models.Submission) (string, error) {
	args := m.Called(ctx, submission)
	return args.String(0), args.Error(1)
}

func (m *MockSubmissionRepository) IsReady(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
