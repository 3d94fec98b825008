package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nyashahama/derma-analyzer-backend/internal/report"
)

// ClientConfig holds the retry policy. Zero values fall back to defaults.
type ClientConfig struct {
	// MaxRetries is the number of additional attempt slots after the first.
	// Default: 2 (3 slots total).
	MaxRetries int

	// RetryDelay is the pause before re-probing after a spent slot.
	// Default: 2s.
	RetryDelay time.Duration

	// ProbeTimeout bounds each reachability check. Default: 5s.
	ProbeTimeout time.Duration

	// SendTimeout bounds the report POST. Default: 30s.
	SendTimeout time.Duration
}

func (c *ClientConfig) applyDefaults() {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 2 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 30 * time.Second
	}
}

// Client orchestrates probe + bounded retry + POST of the normalized report
// payload. One Send call is one logical delivery; no state persists across
// calls.
type Client struct {
	sendURL    string
	probe      *Probe
	httpClient *http.Client
	cfg        ClientConfig
	logger     *slog.Logger
}

// NewClient builds a delivery client against the backend base URL.
func NewClient(backendURL string, cfg ClientConfig, logger *slog.Logger) *Client {
	cfg.applyDefaults()
	return &Client{
		sendURL:    backendURL + "/api/send-report",
		probe:      NewProbe(backendURL, cfg.ProbeTimeout),
		httpClient: &http.Client{Timeout: cfg.SendTimeout},
		cfg:        cfg,
		logger:     logger,
	}
}

// Send runs the delivery state machine to completion. On success the server
// acknowledgement (with its message identifier) is returned; on failure the
// error is one of ErrConnectivityExhausted, *ServerError, or
// *ExhaustedError. Context cancellation aborts between actions.
func (c *Client) Send(ctx context.Context, p report.Payload) (Ack, error) {
	st := initialState(1 + c.cfg.MaxRetries)
	var ack Ack

	for {
		switch st.action() {
		case actWait:
			select {
			case <-ctx.Done():
				return Ack{}, ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
			fallthrough

		case actProbe:
			if c.probe.IsReachable(ctx) {
				st = transition(st, event{kind: evProbeOK})
			} else {
				c.logger.Warn("delivery: backend unreachable", "slots_left", st.slotsLeft)
				st = transition(st, event{kind: evProbeFail, err: ErrConnectivityExhausted})
			}

		case actSend:
			result, ev := c.post(ctx, p)
			if ev.kind == evSendOK {
				ack = result
			} else {
				c.logger.Warn("delivery: send attempt failed", "error", ev.err, "slots_left", st.slotsLeft)
			}
			st = transition(st, ev)

		case actDone:
			if st.phase == phaseSucceeded {
				return ack, nil
			}
			return Ack{}, st.err
		}
	}
}

// serverResponse is the backend's response envelope for /api/send-report.
type serverResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

// post issues exactly one POST and classifies the outcome. Transport-level
// failures (refused/timeout/DNS) are retryable; everything the server
// actually answered — including 5xx — is terminal, as is a response body
// that doesn't parse.
func (c *Client) post(ctx context.Context, p report.Payload) (Ack, event) {
	bodyBytes, err := json.Marshal(p)
	if err != nil {
		return Ack{}, event{kind: evSendTerminal, err: fmt.Errorf("delivery: marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sendURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Ack{}, event{kind: evSendTerminal, err: fmt.Errorf("delivery: build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Ack{}, event{kind: evSendRetryable, err: fmt.Errorf("delivery: http request: %w", err)}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Ack{}, event{kind: evSendRetryable, err: fmt.Errorf("delivery: read response: %w", err)}
	}

	var parsed serverResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return Ack{}, event{kind: evSendTerminal,
			err: fmt.Errorf("delivery: malformed response (status %d): %w", resp.StatusCode, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Ack{}, event{kind: evSendTerminal,
			err: &ServerError{Status: resp.StatusCode, Message: parsed.Error}}
	}

	if !parsed.Success {
		return Ack{}, event{kind: evSendTerminal,
			err: fmt.Errorf("delivery: server did not confirm send: %s", parsed.Error)}
	}

	return Ack{MessageID: parsed.MessageID}, event{kind: evSendOK}
}
