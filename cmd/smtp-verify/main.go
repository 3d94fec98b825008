// Command smtp-verify checks the SMTP configuration end to end: it dials and
// authenticates against the configured relay and, with -send-test, delivers a
// short test report to the given address. Unlike the server, missing
// credentials are fatal here — a verification tool with nothing to verify is
// a misconfiguration.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nyashahama/derma-analyzer-backend/internal/config"
	"github.com/nyashahama/derma-analyzer-backend/internal/mail"
	"github.com/nyashahama/derma-analyzer-backend/internal/report"
)

func main() {
	sendTest := flag.String("send-test", "", "send a test report email to this address after verifying")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if err := run(logger, *sendTest); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, sendTest string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var missing []string
	for name, val := range map[string]string{
		"EMAIL_USER": cfg.EmailUser,
		"EMAIL_PASS": cfg.EmailPass,
		"EMAIL_HOST": cfg.EmailHost,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s — add them to your .env file and try again",
			strings.Join(missing, ", "))
	}

	logger.Info("verifying SMTP connection",
		"host", cfg.EmailHost,
		"port", cfg.EmailPort,
		"user", cfg.EmailUser,
		"pass", maskSecret(cfg.EmailPass),
		"secure", cfg.EmailSecure,
	)

	mailer := mail.NewSMTP(mail.SMTPConfig{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		User:     cfg.EmailUser,
		Pass:     cfg.EmailPass,
		Secure:   cfg.EmailSecure,
		FromName: cfg.EmailFromName,
	}, logger)
	defer mailer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mailer.Verify(ctx); err != nil {
		logger.Error("SMTP connection failed — likely causes: wrong email or password, "+
			"less-secure-app access disabled, or 2FA enabled without an app password",
			"error", err)
		return err
	}
	logger.Info("SMTP connection verified successfully — your email configuration is working")

	if sendTest == "" {
		return nil
	}

	logger.Info("sending test email", "to", sendTest)

	renderer := report.NewRenderer()
	payload := report.NewPayload(sendTest, report.AnalysisResult{
		Name:        "Test Report",
		Description: "This is a test of the Derma Analyzer report delivery pipeline.",
	}, []string{"If you received this, SMTP delivery is working."})

	html, err := renderer.Render(payload)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	result, err := mailer.Dispatch(ctx, sendTest, "Derma Analyzer SMTP Test", html, nil)
	if err != nil {
		return fmt.Errorf("send test email: %w", err)
	}

	logger.Info("test email sent", "message_id", result.MessageID)
	return nil
}

// maskSecret keeps the last two characters visible for sanity-checking which
// credential is loaded without logging it.
func maskSecret(s string) string {
	if len(s) <= 2 {
		return "••••••"
	}
	return "••••••" + s[len(s)-2:]
}
