// Package classifier defines the interface to the external skin-disease
// prediction service and provides the HTTP-backed implementation.
//
// The service is an opaque collaborator: this package only knows its wire
// shape — a base64 image data URI in, an ordered 5-tuple of diagnosis strings
// out. The response is validated against that shape at the boundary and
// converted into the typed AnalysisResult immediately, so no untyped data
// propagates downstream.
package classifier

import (
	"context"
	"fmt"

	"github.com/nyashahama/derma-analyzer-backend/internal/report"
)

// Predictor is the interface the app layer uses to classify a photo.
// Tests inject a stub that returns canned diagnoses.
type Predictor interface {
	// Predict submits one image (as a base64 data URI) and returns the
	// diagnosis. No retry is performed; any failure surfaces directly so the
	// UI can show a generic "analysis failed" message.
	Predict(ctx context.Context, imageDataURI string) (report.AnalysisResult, error)
}

// MalformedResponseError reports an upstream response that did not match the
// expected 5-string-array shape.
type MalformedResponseError struct {
	Detail string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("classifier: malformed upstream response: %s", e.Detail)
}
