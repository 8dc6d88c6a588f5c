// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

// Package handlers contains the HTTP handlers for the contact intake API.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/filmfolio/contact-intake-service/internal/domain"
	"github.com/filmfolio/contact-intake-service/internal/domain/models"
	"github.com/filmfolio/contact-intake-service/internal/logging"
	"github.com/filmfolio/contact-intake-service/internal/middleware"
	"github.com/filmfolio/contact-intake-service/internal/service"
)

// multipartMemoryLimit is the in-memory threshold for parsing multipart
// bodies; parts larger than this spill to temporary files that are cleaned
// up when the request completes.
const multipartMemoryLimit = 32 << 20

// ContactHandler serves the public contact intake endpoints.
type ContactHandler struct {
	service           *service.SubmissionService
	publisher         domain.MediaPublisher
	maxAttachmentSize int64
}

// NewContactHandler creates a new contact handler. The publisher may be nil
// when direct-upload signatures are not configured.
func NewContactHandler(svc *service.SubmissionService, publisher domain.MediaPublisher, maxAttachmentSize int64) *ContactHandler {
	return &ContactHandler{
		service:           svc,
		publisher:         publisher,
		maxAttachmentSize: maxAttachmentSize,
	}
}

// RegisterRoutes attaches the contact intake routes to the router.
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleInfo)
	r.Post("/api/contact", h.handleSubmitContact)
	r.Get("/api/signature", h.handleUploadSignature)
	r.Get("/livez", h.handleLivez)
	r.Get("/readyz", h.handleReadyz)
}

type infoResponse struct {
	Message      string `json:"message"`
	MaxVideoSize int64  `json:"maxVideoSize"`
}

type submitResponse struct {
	Message  string  `json:"message"`
	VideoURL *string `json:"videoUrl"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// clientSubmission is the JSON request body used when the client uploads the
// video itself and only sends the resulting URL.
type clientSubmission struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	VideoURL  string `json:"videoUrl"`
}

func (h *ContactHandler) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Message:      "contact intake service is running",
		MaxVideoSize: h.maxAttachmentSize,
	})
}

func (h *ContactHandler) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, cleanup, err := h.parseSubmission(r)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		h.writeError(w, r, err)
		middleware.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return
	}

	result, err := h.service.SubmitContact(ctx, req)
	if err != nil {
		h.writeError(w, r, err)
		if domain.GetErrorType(err) == domain.ErrorTypeValidation {
			middleware.SubmissionsTotal.WithLabelValues("rejected").Inc()
		} else {
			middleware.SubmissionsTotal.WithLabelValues("failed").Inc()
		}
		return
	}

	middleware.SubmissionsTotal.WithLabelValues("accepted").Inc()
	slog.InfoContext(ctx, "contact submission accepted",
		"submission_id", result.ID,
		"notification_sent", result.NotificationSent,
	)

	writeJSON(w, http.StatusCreated, submitResponse{
		Message:  "Submission received",
		VideoURL: result.VideoURL,
	})
}

// parseSubmission builds a submission request from either a multipart form
// with an attached file or a plain JSON body. The returned cleanup function,
// when non-nil, must be called after the submission has been processed.
func (h *ContactHandler) parseSubmission(r *http.Request) (*models.SubmitContactRequest, func(), error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			return nil, nil, h.parseBodyError(err)
		}
		cleanup := func() {
			if r.MultipartForm != nil {
				if err := r.MultipartForm.RemoveAll(); err != nil {
					slog.WarnContext(r.Context(), "failed to remove multipart temp files", logging.ErrKey, err)
				}
			}
		}

		req := &models.SubmitContactRequest{
			FirstName:      r.FormValue("firstName"),
			LastName:       r.FormValue("lastName"),
			Email:          r.FormValue("email"),
			Subject:        r.FormValue("subject"),
			Message:        r.FormValue("message"),
			ClientVideoURL: r.FormValue("videoUrl"),
		}

		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			req.File = file
			req.FileHeader = header
			wrapped := cleanup
			cleanup = func() {
				if err := file.Close(); err != nil {
					slog.WarnContext(r.Context(), "failed to close uploaded file", logging.ErrKey, err)
				}
				wrapped()
			}
		case errors.Is(err, http.ErrMissingFile):
			// Plain text submission without an attachment.
		default:
			return nil, cleanup, domain.NewValidationError("invalid file field", err)
		}

		return req, cleanup, nil
	}

	var body clientSubmission
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, nil, h.parseBodyError(err)
	}

	return &models.SubmitContactRequest{
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		Email:          body.Email,
		Subject:        body.Subject,
		Message:        body.Message,
		ClientVideoURL: body.VideoURL,
	}, nil, nil
}

// parseBodyError translates request body read failures into domain errors.
// A body over the configured size limit responds 400 with an error naming
// the attachment ceiling.
func (h *ContactHandler) parseBodyError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "http: request body too large") {
		return domain.NewValidationError(
			"File too large. Max "+sizeLabel(h.maxAttachmentSize)+" allowed.", err)
	}
	return domain.NewValidationError("invalid request body", err)
}

// sizeLabel renders a byte count the way the error messages state limits:
// whole megabytes as "75MB", anything else in bytes.
func sizeLabel(n int64) string {
	const megabyte = 1 << 20
	if n >= megabyte && n%megabyte == 0 {
		return strconv.FormatInt(n/megabyte, 10) + "MB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}

func (h *ContactHandler) handleUploadSignature(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		h.writeError(w, r, domain.NewUnavailableError("direct uploads are not configured"))
		return
	}

	sig, err := h.publisher.SignUploadRequest(time.Now().UTC())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sig)
}

func (h *ContactHandler) handleLivez(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

func (h *ContactHandler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Readiness(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

// writeError maps domain errors onto HTTP responses. Validation failures are
// the caller's fault and return 400 with the validation message; everything
// else returns a generic error with the domain message as detail, never the
// wrapped cause.
func (h *ContactHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.DomainError
	detail := "unexpected error"
	if errors.As(err, &domainErr) {
		detail = domainErr.Message
	}

	var status int
	var body errorResponse
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		status = http.StatusBadRequest
		body = errorResponse{Error: detail}
	case domain.ErrorTypeUnavailable:
		status = http.StatusServiceUnavailable
		body = errorResponse{Error: "service unavailable", Details: detail}
	default:
		status = http.StatusInternalServerError
		body = errorResponse{Error: "failed to process submission", Details: detail}
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", logging.ErrKey, err, "status", status)
	} else {
		slog.WarnContext(r.Context(), "request rejected", logging.ErrKey, err, "status", status)
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", logging.ErrKey, err)
	}
}
