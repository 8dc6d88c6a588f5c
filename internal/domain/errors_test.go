// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorMessage(t *testing.T) {
	err := NewValidationError("file type not allowed")
	assert.Equal(t, "file type not allowed", err.Error())

	wrapped := NewUploadError("media upload failed", fmt.Errorf("connection reset"))
	assert.Equal(t, "media upload failed: connection reset", wrapped.Error())
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("no reachable servers")
	err := NewPersistenceError("failed to save submission", cause)
	assert.ErrorIs(t, err, cause)
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "validation error",
			err:      NewValidationError("bad input"),
			expected: ErrorTypeValidation,
		},
		{
			name:     "upload error",
			err:      NewUploadError("upload timed out"),
			expected: ErrorTypeUpload,
		},
		{
			name:     "persistence error",
			err:      NewPersistenceError("write failed"),
			expected: ErrorTypePersistence,
		},
		{
			name:     "notification error",
			err:      NewNotificationError("smtp refused"),
			expected: ErrorTypeNotification,
		},
		{
			name:     "unavailable error",
			err:      NewUnavailableError("repository not ready"),
			expected: ErrorTypeUnavailable,
		},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("handler: %w", NewValidationError("bad input")),
			expected: ErrorTypeValidation,
		},
		{
			name:     "plain error falls back to internal",
			err:      errors.New("boom"),
			expected: ErrorTypeInternal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetErrorType(tc.err))
		})
	}
}
