// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/filmfolio/contact-intake-service/internal/infrastructure/media"
	"github.com/filmfolio/contact-intake-service/internal/infrastructure/staging"
	"github.com/filmfolio/contact-intake-service/internal/logging"
)

// DefaultMaxBodySize caps the whole multipart request body (100MB), leaving
// headroom above the attachment size ceiling for the form fields and
// multipart framing.
const DefaultMaxBodySize = 100 * 1024 * 1024

// flags are the command line flags for the contact intake service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the contact intake service.
type environment struct {
	Port                string
	MongoDB             mongoConfig
	Cloudinary          cloudinaryConfig
	Staging             stagingConfig
	SMTP                smtpConfig
	NATSURL             string
	MaxBodySize         int64
	AllowClientMediaURL bool
	CORSAllowedOrigin   string
}

// mongoConfig holds the document store configuration.
type mongoConfig struct {
	URI      string
	Database string
}

// cloudinaryConfig holds the media host credentials and upload settings.
type cloudinaryConfig struct {
	CloudName     string
	APIKey        string
	APISecret     string
	Folder        string
	Eager         string
	UploadTimeout time.Duration
}

// Configured reports whether media publishing credentials are present.
func (c cloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// stagingConfig holds the attachment staging configuration.
type stagingConfig struct {
	Mode              staging.Mode
	Dir               string
	MaxAttachmentSize int64
	AllowedMediaTypes []string
}

// smtpConfig holds the notification email configuration.
type smtpConfig struct {
	Host       string
	Port       int
	From       string
	Username   string
	Password   string
	Recipients []string
}

// Configured reports whether enough SMTP settings are present to send mail.
func (c smtpConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// parseFlags parses command line flags for the contact intake service.
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the contact intake service.
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		slog.Error("MONGODB_URI environment variable is required but not set")
		os.Exit(1)
	}
	mongoDatabase := os.Getenv("MONGODB_DATABASE")
	if mongoDatabase == "" {
		mongoDatabase = "contact"
	}

	return environment{
		Port: port,
		MongoDB: mongoConfig{
			URI:      mongoURI,
			Database: mongoDatabase,
		},
		Cloudinary:          parseCloudinaryConfig(),
		Staging:             parseStagingConfig(),
		SMTP:                parseSMTPConfig(),
		NATSURL:             os.Getenv("NATS_URL"),
		MaxBodySize:         envInt64("MAX_BODY_SIZE", DefaultMaxBodySize),
		AllowClientMediaURL: os.Getenv("ALLOW_CLIENT_MEDIA_URL") == "true",
		CORSAllowedOrigin:   os.Getenv("CORS_ALLOWED_ORIGIN"),
	}
}

// parseCloudinaryConfig parses the media host configuration from environment
// variables. Missing credentials are not fatal: the service then runs without
// attachment support.
func parseCloudinaryConfig() cloudinaryConfig {
	uploadTimeout := media.DefaultUploadTimeout
	if raw := os.Getenv("UPLOAD_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			slog.With(logging.ErrKey, err, "value", raw).Error("invalid UPLOAD_TIMEOUT, using default")
		} else {
			uploadTimeout = parsed
		}
	}

	return cloudinaryConfig{
		CloudName:     os.Getenv("CLOUDINARY_CLOUD_NAME"),
		APIKey:        os.Getenv("CLOUDINARY_API_KEY"),
		APISecret:     os.Getenv("CLOUDINARY_API_SECRET"),
		Folder:        os.Getenv("CLOUDINARY_UPLOAD_FOLDER"),
		Eager:         os.Getenv("CLOUDINARY_EAGER"),
		UploadTimeout: uploadTimeout,
	}
}

// parseStagingConfig parses the attachment staging configuration from
// environment variables.
func parseStagingConfig() stagingConfig {
	mode := staging.ModeDisk
	switch os.Getenv("STAGING_MODE") {
	case "", "disk":
		mode = staging.ModeDisk
	case "memory":
		mode = staging.ModeMemory
	default:
		slog.With("value", os.Getenv("STAGING_MODE")).Error("invalid STAGING_MODE, using disk")
	}

	allowedTypes := staging.DefaultAllowedTypes
	if raw := os.Getenv("ALLOWED_MEDIA_TYPES"); raw != "" {
		allowedTypes = splitAndTrim(raw)
	}

	return stagingConfig{
		Mode:              mode,
		Dir:               os.Getenv("STAGING_DIR"),
		MaxAttachmentSize: envInt64("MAX_ATTACHMENT_SIZE", staging.DefaultMaxSize),
		AllowedMediaTypes: allowedTypes,
	}
}

// parseSMTPConfig parses the notification email configuration from
// environment variables. Missing settings are not fatal: the service then
// runs with notifications disabled.
func parseSMTPConfig() smtpConfig {
	smtpPort := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			slog.With(logging.ErrKey, err, "value", raw).Error("invalid SMTP_PORT, using default")
		} else {
			smtpPort = parsed
		}
	}

	var recipients []string
	if raw := os.Getenv("CONTACT_RECIPIENTS"); raw != "" {
		recipients = splitAndTrim(raw)
	}

	return smtpConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       smtpPort,
		From:       os.Getenv("SMTP_FROM"),
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		Recipients: recipients,
	}
}

func envInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		slog.With(logging.ErrKey, err, "value", raw).Error("invalid " + key + ", using default")
		return fallback
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
