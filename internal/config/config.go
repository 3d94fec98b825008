// Package config loads and validates all environment variables at startup.
// Every other package receives typed values — nothing reads os.Getenv directly.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port string // default "5000"
	Env  string // "development" | "staging" | "production"

	// ── SMTP ──────────────────────────────────────────────────────────────────
	EmailHost     string // default "smtp.gmail.com"
	EmailPort     int    // default 587
	EmailUser     string // sender account; doubles as the From address
	EmailPass     string
	EmailSecure   bool   // implicit TLS (port 465 style) when true
	EmailFromName string // display name on outgoing mail, default "Derma Analyzer"

	// ── Classifier ────────────────────────────────────────────────────────────
	// ClassifierURL is the external skin-disease prediction endpoint. The
	// client posts a base64 image data URI and receives a 5-field diagnosis.
	ClassifierURL string

	// ── Delivery client ───────────────────────────────────────────────────────
	// BackendURL is the report delivery backend the mobile client talks to.
	BackendURL string // default "http://localhost:5000"

	// MaxRetries is the number of additional send attempts after the first
	// (3 attempts total with the default of 2).
	MaxRetries int
	// RetryDelay is the pause between attempt slots. Default 2s.
	RetryDelay time.Duration
	// ProbeTimeout bounds the reachability check. Default 5s.
	ProbeTimeout time.Duration
	// SendTimeout bounds the report POST itself. Default 30s.
	SendTimeout time.Duration

	// ── PDF ───────────────────────────────────────────────────────────────────
	// PDFWorkers caps concurrent Chrome print jobs. Default 4.
	PDFWorkers int
	// PDFTimeout is the hard per-render deadline. Default 60s.
	PDFTimeout time.Duration
}

// EmailConfigured reports whether SMTP credentials are present. The server
// starts without them (the status endpoint exposes the gap); the standalone
// verification tool refuses to.
func (c *Config) EmailConfigured() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

// Load reads all environment variables and returns a validated Config.
// It automatically loads a .env file from the working directory when present,
// so plain `go run ./cmd/api` works in development without any wrapper.
// Real environment variables always take precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv(".env")

	c := &Config{
		Port:          getEnv("PORT", "5000"),
		Env:           getEnv("ENV", "development"),
		EmailHost:     getEnv("EMAIL_HOST", "smtp.gmail.com"),
		EmailPort:     getEnvAsInt("EMAIL_PORT", 587),
		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPass:     os.Getenv("EMAIL_PASS"),
		EmailSecure:   getEnvAsBool("EMAIL_SECURE", false),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "Derma Analyzer"),
		ClassifierURL: getEnv("CLASSIFIER_URL", "https://jaganathc-skindiseaseprediction.hf.space/run/predict"),
		BackendURL:    getEnv("BACKEND_URL", "http://localhost:5000"),
		MaxRetries:    getEnvAsInt("MAX_RETRIES", 2),
		RetryDelay:    getEnvAsDuration("RETRY_DELAY", 2*time.Second),
		ProbeTimeout:  getEnvAsDuration("PROBE_TIMEOUT", 5*time.Second),
		SendTimeout:   getEnvAsDuration("SEND_TIMEOUT", 30*time.Second),
		PDFWorkers:    getEnvAsInt("PDF_WORKERS", 4),
		PDFTimeout:    getEnvAsDuration("PDF_TIMEOUT", 60*time.Second),
	}

	return c, c.validate()
}

func (c *Config) validate() error {
	var errs []error

	if c.EmailPort <= 0 || c.EmailPort > 65535 {
		errs = append(errs, fmt.Errorf("EMAIL_PORT out of range: %d", c.EmailPort))
	}
	if c.PDFWorkers <= 0 {
		errs = append(errs, fmt.Errorf("PDF_WORKERS must be positive: %d", c.PDFWorkers))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("MAX_RETRIES must not be negative: %d", c.MaxRetries))
	}

	// Missing SMTP credentials are deliberately not an error here: the server
	// logs a startup warning and /api/status reports email_configured=false.

	return errors.Join(errs...)
}

// ─── DOT-ENV LOADER ──────────────────────────────────────────────────────────

// loadDotEnv reads key=value pairs from path and sets them in the environment,
// but only for keys that are not already set. This means real env vars (e.g.
// from Docker / Railway / your shell) always win over the file.
// Missing file, blank lines, and #-comments are all silently ignored.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return // file absent — that's fine
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		// Strip optional surrounding quotes: KEY="value" or KEY='value'
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		// Only set if the key isn't already present in the environment.
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// Try a plain integer first (treated as seconds, minutes, or hours
	// depending on the variable name).
	if value, err := strconv.Atoi(valueStr); err == nil {
		switch {
		case strings.Contains(key, "HOURS"):
			return time.Duration(value) * time.Hour
		case strings.Contains(key, "MINUTES"):
			return time.Duration(value) * time.Minute
		default:
			return time.Duration(value) * time.Second
		}
	}
	// Fall back to Go duration syntax: "30s", "5m", "1h", etc.
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
