package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyashahama/derma-analyzer-backend/internal/api"
	"github.com/nyashahama/derma-analyzer-backend/internal/config"
	"github.com/nyashahama/derma-analyzer-backend/internal/mail"
	"github.com/nyashahama/derma-analyzer-backend/internal/pdf"
	"github.com/nyashahama/derma-analyzer-backend/internal/report"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port)

	// ── Mail transport ────────────────────────────────────────────────────────
	// Verified eagerly so credential problems show up at startup, but a
	// verification failure is not fatal: the server comes up and /api/status
	// reports email_configured honestly.
	mailer := mail.NewSMTP(mail.SMTPConfig{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		User:     cfg.EmailUser,
		Pass:     cfg.EmailPass,
		Secure:   cfg.EmailSecure,
		FromName: cfg.EmailFromName,
	}, logger)
	defer mailer.Close()

	if !cfg.EmailConfigured() {
		logger.Warn("smtp: EMAIL_USER/EMAIL_PASS not set — report delivery will fail until configured")
	} else {
		verifyCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := mailer.Verify(verifyCtx); err != nil {
			logger.Warn("smtp: connection verification failed — check credentials and app-password settings",
				"host", cfg.EmailHost, "port", cfg.EmailPort, "error", err)
		} else {
			logger.Info("smtp: server is ready to take our messages")
		}
		cancel()
	}

	// ── PDF renderer ──────────────────────────────────────────────────────────
	chrome := pdf.NewChrome(pdf.ChromeConfig{
		Workers: cfg.PDFWorkers,
		Timeout: cfg.PDFTimeout,
	}, logger)
	defer chrome.Close()

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		report.NewRenderer(),
		chrome,
		mailer,
		api.Config{
			Env:             cfg.Env,
			EmailConfigured: cfg.EmailConfigured(),
		},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second, // send-report holds the request through PDF + SMTP
		IdleTimeout:  120 * time.Second,
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight requests (a send-report may be mid-PDF) time to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
