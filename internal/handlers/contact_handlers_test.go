// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/filmfolio/contact-intake-service/internal/domain"
	"github.com/filmfolio/contact-intake-service/internal/domain/mocks"
	"github.com/filmfolio/contact-intake-service/internal/middleware"
	"github.com/filmfolio/contact-intake-service/internal/service"
)

type handlerMocks struct {
	stager    *mocks.MockAttachmentStager
	publisher *mocks.MockMediaPublisher
	repo      *mocks.MockSubmissionRepository
	email     *mocks.MockEmailService
}

func newTestRouter(t *testing.T, cfg service.ServiceConfig) (*chi.Mux, handlerMocks) {
	t.Helper()

	m := handlerMocks{
		stager:    &mocks.MockAttachmentStager{},
		publisher: &mocks.MockMediaPublisher{},
		repo:      &mocks.MockSubmissionRepository{},
		email:     &mocks.MockEmailService{},
	}
	svc := service.NewSubmissionService(m.stager, m.publisher, m.repo, m.email, nil, cfg)

	r := chi.NewRouter()
	NewContactHandler(svc, m.publisher, 75*1024*1024).RegisterRoutes(r)
	return r, m
}

func newMultipartRequest(t *testing.T, fields map[string]string, fileName, fileContent string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/contact", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func contactFields() map[string]string {
	return map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"subject":   "Demo reel",
		"message":   "Please take a look.",
	}
}

func TestHandleInfo(t *testing.T) {
	router, _ := newTestRouter(t, service.ServiceConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body infoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(75*1024*1024), body.MaxVideoSize)
	assert.NotEmpty(t, body.Message)
}

func TestSubmitContactJSON(t *testing.T) {
	router, m := newTestRouter(t, service.ServiceConfig{})
	m.repo.On("Save", mock.Anything, mock.Anything).Return("64f1c0ffee", nil)
	m.email.On("SendSubmissionNotification", mock.Anything, mock.Anything).Return(nil)

	payload := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","subject":"Demo reel","message":"Please take a look."}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body submitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Submission received", body.Message)
	assert.Nil(t, body.VideoURL)
	m.publisher.AssertNotCalled(t, "Publish")
	m.repo.AssertExpectations(t)
}

func TestSubmitContactMultipartWithFile(t *testing.T) {
	router, m := newTestRouter(t, service.ServiceConfig{})

	attachment := domain.NewMemoryAttachment("reel.mp4", "video/mp4", []byte("frames"))
	m.stager.On("Stage", mock.Anything, mock.Anything, mock.Anything).Return(attachment, nil)
	m.publisher.On("Publish", mock.Anything, attachment).Return(&domain.PublishResult{
		URL:     "https://media.example.com/contact-videos/reel.mp4",
		AssetID: "contact-videos/reel",
	}, nil)
	m.repo.On("Save", mock.Anything, mock.Anything).Return("64f1c0ffee", nil)
	m.email.On("SendSubmissionNotification", mock.Anything, mock.Anything).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newMultipartRequest(t, contactFields(), "reel.mp4", "frames"))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body submitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.VideoURL)
	assert.Equal(t, "https://media.example.com/contact-videos/reel.mp4", *body.VideoURL)
	m.stager.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestSubmitContactMultipartWithoutFile(t *testing.T) {
	router, m := newTestRouter(t, service.ServiceConfig{})
	m.repo.On("Save", mock.Anything, mock.Anything).Return("64f1c0ffee", nil)
	m.email.On("SendSubmissionNotification", mock.Anything, mock.Anything).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newMultipartRequest(t, contactFields(), "", ""))

	require.Equal(t, http.StatusCreated, rec.Code)
	m.stager.AssertNotCalled(t, "Stage")
	m.publisher.AssertNotCalled(t, "Publish")
}

func TestSubmitContactMultipartClientVideoURL(t *testing.T) {
	router, m := newTestRouter(t, service.ServiceConfig{AllowClientMediaURL: true})
	m.repo.On("Save", mock.Anything, mock.Anything).Return("64f1c0ffee", nil)
	m.email.On("SendSubmissionNotification", mock.Anything, mock.Anything).Return(nil)

	fields := contactFields()
	fields["videoUrl"] = "https://media.example.com/contact-videos/self-hosted.mp4"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newMultipartRequest(t, fields, "", ""))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body submitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.VideoURL)
	assert.Equal(t, "https://media.example.com/contact-videos/self-hosted.mp4", *body.VideoURL)
	m.stager.AssertNotCalled(t, "Stage")
	m.publisher.AssertNotCalled(t, "Publish")
}

func TestSubmitContactValidationError(t *testing.T) {
	router, m := newTestRouter(t, service.ServiceConfig{})

	fields := contactFields()
	fields["email"] = ""

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newMultipartRequest(t, fields, "", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.Empty(t, body.Details)
	m.repo.AssertNotCalled(t, "Save")
}

func TestSubmitContactUploadFailure(t *testing.T) {
	router, m := newTestRouter(t, service.ServiceConfig{})

	attachment := domain.NewMemoryAttachment("reel.mp4", "video/mp4", []byte("frames"))
	m.stager.On("Stage", mock.Anything, mock.Anything, mock.Anything).Return(attachment, nil)
	m.publisher.On("Publish", mock.Anything, attachment).Return(nil,
		domain.NewUploadError("media upload failed", fmt.Errorf("connection reset")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newMultipartRequest(t, contactFields(), "reel.mp4", "frames"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "failed to process submission", body.Error)
	assert.Equal(t, "media upload failed", body.Details)
	assert.NotContains(t, body.Details, "connection reset")
	m.repo.AssertNotCalled(t, "Save")
}

func TestSubmitContactBodyTooLarge(t *testing.T) {
	router, _ := newTestRouter(t, service.ServiceConfig{})
	limited := middleware.BodyLimitMiddleware(256)(router)

	payload := fmt.Sprintf(`{"firstName":"Ada","message":%q}`, strings.Repeat("x", 1024))
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "File too large. Max 75MB allowed.", body.Error)
}

func TestSubmitContactBodyTooLargeNamesLimit(t *testing.T) {
	m := handlerMocks{
		stager:    &mocks.MockAttachmentStager{},
		publisher: &mocks.MockMediaPublisher{},
		repo:      &mocks.MockSubmissionRepository{},
		email:     &mocks.MockEmailService{},
	}
	svc := service.NewSubmissionService(m.stager, m.publisher, m.repo, m.email, nil, service.ServiceConfig{})

	r := chi.NewRouter()
	NewContactHandler(svc, m.publisher, 1024).RegisterRoutes(r)
	limited := middleware.BodyLimitMiddleware(1024)(r)

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, newMultipartRequest(t, contactFields(), "reel.mp4", strings.Repeat("x", 4096)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "File too large")
	assert.Contains(t, body.Error, "1024")
	m.stager.AssertNotCalled(t, "Stage")
}

func TestUploadSignature(t *testing.T) {
	router, m := newTestRouter(t, service.ServiceConfig{})
	m.publisher.On("SignUploadRequest", mock.Anything).Return(&domain.UploadSignature{
		Timestamp: 1756684800,
		Signature: "deadbeef",
		CloudName: "demo",
		APIKey:    "key123",
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/signature", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var sig domain.UploadSignature
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sig))
	assert.Equal(t, "deadbeef", sig.Signature)
	assert.Equal(t, "demo", sig.CloudName)
}

func TestUploadSignatureUnconfigured(t *testing.T) {
	m := handlerMocks{
		stager: &mocks.MockAttachmentStager{},
		repo:   &mocks.MockSubmissionRepository{},
		email:  &mocks.MockEmailService{},
	}
	svc := service.NewSubmissionService(m.stager, nil, m.repo, m.email, nil, service.ServiceConfig{})

	r := chi.NewRouter()
	NewContactHandler(svc, nil, 75*1024*1024).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/signature", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router, m := newTestRouter(t, service.ServiceConfig{})
	m.repo.On("IsReady", mock.Anything).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzFailure(t *testing.T) {
	router, m := newTestRouter(t, service.ServiceConfig{})
	m.repo.On("IsReady", mock.Anything).Return(
		domain.NewUnavailableError("document store unreachable", fmt.Errorf("no reachable servers")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
