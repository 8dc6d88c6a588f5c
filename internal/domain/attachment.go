// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"bytes"
	"io"
	"os"
	"sync"
)

// Attachment is a staged, request-scoped binary. It is backed either by a
// temporary file on disk or by an in-memory buffer, and must be released
// exactly once when the request that staged it finishes.
type Attachment struct {
	FileName    string
	ContentType string
	Size        int64

	path string // disk backing, empty for memory mode
	data []byte // memory backing, nil for disk mode

	mu       sync.Mutex
	released bool
}

// NewDiskAttachment creates an attachment backed by a temporary file.
// The attachment takes ownership of the file and removes it on Release.
func NewDiskAttachment(fileName, contentType string, size int64, path string) *Attachment {
	return &Attachment{
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		path:        path,
	}
}

// NewMemoryAttachment creates an attachment backed by an in-memory buffer.
func NewMemoryAttachment(fileName, contentType string, data []byte) *Attachment {
	return &Attachment{
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		data:        data,
	}
}

// Open returns a reader over the staged content. The caller must close it
// before calling Release.
func (a *Attachment) Open() (io.ReadCloser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return nil, NewInternalError("attachment already released")
	}
	if a.path != "" {
		f, err := os.Open(a.path)
		if err != nil {
			return nil, NewInternalError("failed to open staged attachment", err)
		}
		return f, nil
	}
	return io.NopCloser(bytes.NewReader(a.data)), nil
}

// Release frees the transient storage behind the attachment. It is safe to
// call more than once; only the first call does any work.
func (a *Attachment) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return nil
	}
	a.released = true

	a.data = nil
	if a.path != "" {
		if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
			return NewInternalError("failed to remove staged attachment", err)
		}
	}
	return nil
}

// Released reports whether the attachment's storage has been freed.
func (a *Attachment) Released() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.released
}
