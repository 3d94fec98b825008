// Package pdf converts report HTML into a PDF byte buffer using headless
// Chrome. The api package depends only on the Renderer interface; tests
// inject a stub.
package pdf

import (
	"context"
	"errors"
)

// ErrTimeout reports that a render exceeded the hard per-render deadline.
// The caller surfaces it as a pipeline failure; there is no retry.
var ErrTimeout = errors.New("pdf: render timed out")

// Renderer produces a PDF from an HTML document. Implementations must be
// safe for concurrent use; concurrency limiting is the implementation's
// responsibility.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}
