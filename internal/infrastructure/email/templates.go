// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

// RenderedEmail holds both HTML and text versions of a rendered email
type RenderedEmail struct {
	HTML string
	Text string
}

// SubmissionTemplateManager defines the interface for rendering submission email templates
type SubmissionTemplateManager interface {
	RenderSubmissionNotification(data NotificationData) (*RenderedEmail, error)
}

// NotificationData is the template payload for a submission notification.
// Every string field is user-supplied and rendered through html/template,
// which escapes it contextually.
type NotificationData struct {
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   string
	VideoURL  string
}

// TemplateManager is the default implementation of SubmissionTemplateManager
type TemplateManager struct {
	templates Templates
}

// NewTemplateManager creates a new template manager with all templates loaded
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{}

	// Define all templates to load
	templateConfigs := map[string]templateConfig{
		"notificationHTML": {"submission_notification.html", "templates/submission_notification.html"},
		"notificationText": {"submission_notification.txt", "templates/submission_notification.txt"},
	}

	// Load all templates
	loadedTemplates := make(map[string]*template.Template)
	for key, cfg := range templateConfigs {
		tmpl, err := loadTemplate(cfg)
		if err != nil {
			return nil, err
		}
		loadedTemplates[key] = tmpl
	}

	tm.templates = Templates{
		Submission: SubmissionTemplates{
			Notification: TemplateSet{
				HTML: loadedTemplates["notificationHTML"],
				Text: loadedTemplates["notificationText"],
			},
		},
	}

	return tm, nil
}

// Ensure TemplateManager implements SubmissionTemplateManager
var _ SubmissionTemplateManager = (*TemplateManager)(nil)

// RenderSubmissionNotification renders a notification email with both HTML and text versions
func (tm *TemplateManager) RenderSubmissionNotification(data NotificationData) (*RenderedEmail, error) {
	html, err := renderTemplate(tm.templates.Submission.Notification.HTML, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render notification HTML: %w", err)
	}

	text, err := renderTemplate(tm.templates.Submission.Notification.Text, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render notification text: %w", err)
	}

	return &RenderedEmail{HTML: html, Text: text}, nil
}

// TemplateSet holds HTML and text versions of a template
type TemplateSet struct {
	HTML *template.Template
	Text *template.Template
}

// SubmissionTemplates holds all submission-related templates
type SubmissionTemplates struct {
	Notification TemplateSet
}

// Templates holds all template categories
type Templates struct {
	Submission SubmissionTemplates
}

// templateConfig defines a template to be loaded
type templateConfig struct {
	name string
	path string
}

// loadTemplate loads a single template with the shared function map
func loadTemplate(config templateConfig) (*template.Template, error) {
	tmpl, err := template.New(config.name).Funcs(template.FuncMap{
		"newLineToBreakLine": newLineToBreakLine,
	}).ParseFS(templateFS, config.path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", config.name, err)
	}
	return tmpl, nil
}

// renderTemplate renders any template with the provided data
func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// newLineToBreakLine converts newlines to HTML break tags for proper email formatting
func newLineToBreakLine(s string) template.HTML {
	// Escape first so user-supplied markup never reaches the output raw
	escaped := template.HTMLEscapeString(s)
	replaced := strings.ReplaceAll(escaped, "\n", "<br>")
	// Return as template.HTML to prevent double escaping
	return template.HTML(replaced)
}
