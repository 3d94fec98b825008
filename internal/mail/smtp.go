package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/textproto"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

const attachmentName = "skin-disease-report.pdf"

// SMTPConfig holds the relay settings, validated once at startup.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string // also the From address
	Pass     string
	Secure   bool // implicit TLS instead of STARTTLS
	FromName string
}

// Error is a classified transport-level failure. The SMTP reply code is
// preserved for diagnostics when the relay reported one.
type Error struct {
	Op   string // "dial" or "send"
	Code int    // SMTP reply code, 0 when the failure never reached the relay
	Err  error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("mail: %s failed (smtp %d): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("mail: %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// classify wraps err in *Error, pulling out the SMTP reply code when the
// underlying failure is a textproto protocol error.
func classify(op string, err error) *Error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return &Error{Op: op, Code: tpErr.Code, Err: err}
	}
	return &Error{Op: op, Code: 0, Err: err}
}

// SMTP is the gomail-backed Dispatcher. It keeps one authenticated
// connection open across sends and re-dials lazily after a failure. The
// mutex serializes sends; SMTP sessions are not multiplexed.
type SMTP struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
	logger *slog.Logger

	mu   sync.Mutex
	conn gomail.SendCloser
}

// NewSMTP constructs the dispatcher. No connection is made here; call Verify
// for the eager startup check.
func NewSMTP(cfg SMTPConfig, logger *slog.Logger) *SMTP {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.SSL = cfg.Secure
	return &SMTP{cfg: cfg, dialer: d, logger: logger}
}

// Verify opens and closes an authenticated connection. Used at startup to
// surface misconfiguration early; a failure is logged, not fatal, so the
// server can come up before credentials are sorted out.
func (s *SMTP) Verify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := s.dialer.Dial()
	if err != nil {
		return classify("dial", err)
	}
	return conn.Close()
}

// Dispatch sends one report email. Single attempt: any failure propagates to
// the caller and the pooled connection is dropped so the next call re-dials.
func (s *SMTP) Dispatch(ctx context.Context, to, subject, html string, pdfAttachment []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.cfg.Host)

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.User, s.cfg.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", html)
	if len(pdfAttachment) > 0 {
		m.Attach(attachmentName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(pdfAttachment)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {"application/pdf"},
			}),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		conn, err := s.dialer.Dial()
		if err != nil {
			return Result{}, classify("dial", err)
		}
		s.conn = conn
	}

	if err := gomail.Send(s.conn, m); err != nil {
		// Drop the connection — it may be stale or half-closed. The next
		// Dispatch re-dials.
		_ = s.conn.Close()
		s.conn = nil
		return Result{}, classify("send", err)
	}

	s.logger.Info("mail: sent", "to", to, "message_id", messageID)
	return Result{MessageID: messageID}, nil
}

// Close releases the pooled connection, if any.
func (s *SMTP) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
