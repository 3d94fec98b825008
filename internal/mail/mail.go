// Package mail defines the interface for report email dispatch and provides
// an SMTP-backed implementation built on gomail.
package mail

import "context"

// Result carries the provider message identifier returned to the API caller.
type Result struct {
	MessageID string
}

// Dispatcher sends a single report email with the PDF attached. One send
// attempt per call — retry responsibility lives entirely in the delivery
// client. Implementations must be safe for concurrent use.
type Dispatcher interface {
	Dispatch(ctx context.Context, to, subject, html string, pdfAttachment []byte) (Result, error)
}
