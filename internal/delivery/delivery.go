// Package delivery implements the client-side report delivery core: a
// connectivity-probed, bounded-retry POST of the normalized report payload to
// the email backend.
//
// The retry loop is modelled as an explicit state machine with a pure
// transition function (machine.go); the Client (client.go) is the executor
// that performs the network actions the machine asks for. Attempts are
// strictly sequential — never parallel.
package delivery

import (
	"errors"
	"fmt"
)

// Ack is the server acknowledgement for a delivered report.
type Ack struct {
	MessageID string
}

// ErrConnectivityExhausted is returned when every attempt slot was spent on
// failed reachability probes — the backend was never seen online.
var ErrConnectivityExhausted = errors.New(
	"Could not connect to email server. Please check your internet connection and try again later.")

// ServerError is a terminal backend rejection (4xx/5xx). It is never retried:
// the server is single-attempt and a rejection will repeat.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// ExhaustedError is returned when the retry bound was reached with at least
// one true send attempt made; the last underlying failure is attached.
type ExhaustedError struct {
	Last error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed to send email: %v", e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }
