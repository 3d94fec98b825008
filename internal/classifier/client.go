package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nyashahama/derma-analyzer-backend/internal/report"
)

// client is the concrete Predictor backed by the hosted prediction endpoint.
type client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns a Predictor that calls the prediction endpoint at url.
func NewClient(url string) Predictor {
	return &client{
		url: url,
		httpClient: &http.Client{
			// Inference on a cold-started space can take a while.
			Timeout: 90 * time.Second,
		},
	}
}

// ─── API SHAPES ───────────────────────────────────────────────────────────────

type predictRequest struct {
	Data []string `json:"data"`
}

type predictResponse struct {
	Data []string `json:"data"`
}

// ─── IMPLEMENTATION ───────────────────────────────────────────────────────────

// Predict submits the image and converts the response tuple into the typed
// AnalysisResult. The tuple must be exactly report.ResultCount strings in
// [name, description, symptoms, causes, treatment] order; anything else is a
// MalformedResponseError.
func (c *client) Predict(ctx context.Context, imageDataURI string) (report.AnalysisResult, error) {
	bodyBytes, err := json.Marshal(predictRequest{Data: []string{imageDataURI}})
	if err != nil {
		return report.AnalysisResult{}, fmt.Errorf("classifier: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return report.AnalysisResult{}, fmt.Errorf("classifier: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return report.AnalysisResult{}, fmt.Errorf("classifier: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return report.AnalysisResult{}, fmt.Errorf("classifier: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return report.AnalysisResult{}, fmt.Errorf("classifier: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}

	var parsed predictResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return report.AnalysisResult{}, &MalformedResponseError{
			Detail: fmt.Sprintf("not a string array: %v", err),
		}
	}

	if len(parsed.Data) != report.ResultCount {
		return report.AnalysisResult{}, &MalformedResponseError{
			Detail: fmt.Sprintf("expected %d fields, got %d", report.ResultCount, len(parsed.Data)),
		}
	}

	return report.AnalysisResult{
		Name:        parsed.Data[report.FieldName],
		Description: parsed.Data[report.FieldDescription],
		Symptoms:    parsed.Data[report.FieldSymptoms],
		Causes:      parsed.Data[report.FieldCauses],
		Treatment:   parsed.Data[report.FieldTreatment],
	}, nil
}
