// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// PublishResult is the durable identity of a published media asset.
type PublishResult struct {
	// URL is the public, durable URL of the asset.
	URL string
	// AssetID is the provider-side identifier (public ID), kept so that an
	// orphaned asset can at least be reported when persistence fails later.
	AssetID string
}

// UploadSignature is a time-limited credential for client-side
// direct-to-provider uploads.
type UploadSignature struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	CloudName string `json:"cloudName"`
	APIKey    string `json:"apiKey"`
}

// MediaPublisher is the port for the external media host. A publish is a
// single attempt under a bounded timeout; the pipeline performs no retries.
type MediaPublisher interface {
	// Publish uploads the staged attachment and returns its public URL.
	Publish(ctx context.Context, attachment *Attachment) (*PublishResult, error)
	// SignUploadRequest computes a signed credential for direct uploads.
	SignUploadRequest(now time.Time) (*UploadSignature, error)
	// DeleteAsset removes a published asset. The baseline pipeline does not
	// compensate orphaned uploads, but the port supports it.
	DeleteAsset(ctx context.Context, assetID string) error
}
