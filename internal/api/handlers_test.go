package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nyashahama/derma-analyzer-backend/internal/api"
	"github.com/nyashahama/derma-analyzer-backend/internal/mail"
	"github.com/nyashahama/derma-analyzer-backend/internal/report"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

// stubPDF satisfies pdf.Renderer without launching Chrome.
type stubPDF struct {
	out   []byte
	err   error
	calls int
}

func (p *stubPDF) Render(_ context.Context, _ string) ([]byte, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if p.out == nil {
		return []byte("%PDF-1.4 stub"), nil
	}
	return p.out, nil
}

// sentMail records one Dispatch call.
type sentMail struct {
	To      string
	Subject string
	HTML    string
	PDF     []byte
}

// stubMailer captures dispatched mail and hands out sequential message IDs.
type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) Dispatch(_ context.Context, to, subject, html string, pdf []byte) (mail.Result, error) {
	if m.err != nil {
		return mail.Result{}, m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html, PDF: pdf})
	return mail.Result{MessageID: fmt.Sprintf("<msg-%d@test>", len(m.sent))}, nil
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

type testDeps struct {
	pdf     *stubPDF
	mailer  *stubMailer
	handler http.Handler
}

func newTestServer(t *testing.T, cfgOverrides ...func(*api.Config)) *testDeps {
	t.Helper()

	p := &stubPDF{}
	m := &stubMailer{}

	cfg := api.Config{
		Env:             "development",
		EmailConfigured: true,
	}
	for _, fn := range cfgOverrides {
		fn(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := api.NewServer(report.NewRenderer(), p, m, cfg, logger)

	return &testDeps{pdf: p, mailer: m, handler: handler}
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		switch v := body.(type) {
		case string:
			bodyReader = strings.NewReader(v)
		default:
			b, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			bodyReader = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response body: %v (raw: %s)", err, rr.Body.String())
	}
}

// sendReportBody is the canonical valid request used across tests.
func sendReportBody() map[string]any {
	return map[string]any{
		"email": "a@b.com",
		"reportData": map[string]any{
			"results":    []string{"Eczema", "desc", "sympt", "cause", "treat"},
			"treatments": []string{"Use aloe vera"},
		},
	}
}

type sendReportResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
	Step      string `json:"step"`
}

// ─── GET / ────────────────────────────────────────────────────────────────────

func TestHome_Banner(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Derma Analyzer Email Server is running") {
		t.Errorf("unexpected banner: %s", rr.Body.String())
	}
}

// ─── GET /api/test ────────────────────────────────────────────────────────────

func TestHealthCheck(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/test", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body struct {
		Message string `json:"message"`
		Time    string `json:"time"`
	}
	decodeJSON(t, rr, &body)
	if body.Message != "Server is running correctly" {
		t.Errorf("message = %q", body.Message)
	}
	if body.Time == "" {
		t.Error("time is empty")
	}
}

// ─── GET /api/status ──────────────────────────────────────────────────────────

func TestStatus_ReportsEmailConfiguration(t *testing.T) {
	for _, configured := range []bool{true, false} {
		deps := newTestServer(t, func(c *api.Config) { c.EmailConfigured = configured })
		rr := doRequest(t, deps.handler, http.MethodGet, "/api/status", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}

		var body struct {
			Status          string `json:"status"`
			Timestamp       string `json:"timestamp"`
			EmailConfigured bool   `json:"email_configured"`
		}
		decodeJSON(t, rr, &body)
		if body.Status != "online" {
			t.Errorf("status = %q", body.Status)
		}
		if body.EmailConfigured != configured {
			t.Errorf("email_configured = %v, want %v", body.EmailConfigured, configured)
		}
	}
}

// ─── POST /api/send-report — validation ──────────────────────────────────────

func TestSendReport_EmptyBody(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/send-report", nil)
	assertValidationError(t, rr, "Request body is missing")
}

func TestSendReport_EmptyObjectBody(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/send-report", "{}")
	assertValidationError(t, rr, "Request body is missing")
}

func TestSendReport_MalformedJSON(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/send-report", "{not json")
	assertValidationError(t, rr, "Request body is missing")
}

func TestSendReport_MissingEmail(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/send-report",
		map[string]any{"email": ""})
	assertValidationError(t, rr, "Email address is required")
}

func TestSendReport_MissingReportData(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/send-report",
		map[string]any{"email": "a@b.com"})
	assertValidationError(t, rr, "Report data is required")
}

func TestSendReport_ReportDataWithoutResults(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/send-report",
		map[string]any{
			"email":      "a@b.com",
			"reportData": map[string]any{"treatments": []string{"x"}},
		})
	assertValidationError(t, rr, "Report data is required")
}

func assertValidationError(t *testing.T, rr *httptest.ResponseRecorder, wantMsg string) {
	t.Helper()
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body: %s)", rr.Code, rr.Body.String())
	}
	var body sendReportResponse
	decodeJSON(t, rr, &body)
	if body.Success {
		t.Error("success = true on a validation error")
	}
	if body.Error != wantMsg {
		t.Errorf("error = %q, want %q", body.Error, wantMsg)
	}
}

// ─── POST /api/send-report — pipeline ────────────────────────────────────────

func TestSendReport_Success(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/send-report", sendReportBody())

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rr.Code, rr.Body.String())
	}
	var body sendReportResponse
	decodeJSON(t, rr, &body)
	if !body.Success || body.MessageID == "" {
		t.Fatalf("response = %+v, want success with a message id", body)
	}

	if len(deps.mailer.sent) != 1 {
		t.Fatalf("dispatched mails = %d, want 1", len(deps.mailer.sent))
	}
	sent := deps.mailer.sent[0]
	if sent.To != "a@b.com" {
		t.Errorf("to = %q", sent.To)
	}
	if sent.Subject != "Skin Disease Detection Report - Eczema" {
		t.Errorf("subject = %q", sent.Subject)
	}
	if !strings.Contains(sent.HTML, "Eczema") {
		t.Error("mail HTML missing the disease name")
	}
	if got := strings.Count(sent.HTML, `<li class="treatment-item">`); got != 1 {
		t.Errorf("treatment items = %d, want exactly 1", got)
	}
	if !strings.Contains(sent.HTML, `<li class="treatment-item">Use aloe vera</li>`) {
		t.Error("mail HTML missing the treatment item")
	}
	if len(sent.PDF) == 0 {
		t.Error("no PDF attached")
	}
	if deps.pdf.calls != 1 {
		t.Errorf("pdf renders = %d, want 1", deps.pdf.calls)
	}
}

func TestSendReport_Idempotence_TwoSendsTwoMessageIDs(t *testing.T) {
	deps := newTestServer(t)

	first := doRequest(t, deps.handler, http.MethodPost, "/api/send-report", sendReportBody())
	second := doRequest(t, deps.handler, http.MethodPost, "/api/send-report", sendReportBody())

	var a, b sendReportResponse
	decodeJSON(t, first, &a)
	decodeJSON(t, second, &b)

	if !a.Success || !b.Success {
		t.Fatalf("both sends must succeed: %+v / %+v", a, b)
	}
	if a.MessageID == b.MessageID {
		t.Errorf("message ids are equal (%q) — each send must be independent", a.MessageID)
	}
	if len(deps.mailer.sent) != 2 {
		t.Errorf("dispatched mails = %d, want 2 (no deduplication)", len(deps.mailer.sent))
	}
}

func TestSendReport_PDFFailure_500WithStep(t *testing.T) {
	deps := newTestServer(t)
	deps.pdf.err = errors.New("chrome crashed")

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/send-report", sendReportBody())
	assertPipelineError(t, rr, "chrome crashed")

	if len(deps.mailer.sent) != 0 {
		t.Error("mail dispatched despite PDF failure")
	}
}

func TestSendReport_MailFailure_500WithStep(t *testing.T) {
	deps := newTestServer(t)
	deps.mailer.err = &mail.Error{Op: "send", Code: 535, Err: errors.New("authentication failed")}

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/send-report", sendReportBody())
	assertPipelineError(t, rr, "smtp 535")
}

func assertPipelineError(t *testing.T, rr *httptest.ResponseRecorder, wantSubstr string) {
	t.Helper()
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d (body: %s)", rr.Code, rr.Body.String())
	}
	var body sendReportResponse
	decodeJSON(t, rr, &body)
	if body.Success {
		t.Error("success = true on a pipeline error")
	}
	if body.Step != "PDF generation or email sending" {
		t.Errorf("step = %q", body.Step)
	}
	if !strings.Contains(body.Error, wantSubstr) {
		t.Errorf("error = %q, want substring %q", body.Error, wantSubstr)
	}
}

// ─── Default-substitution through the endpoint ───────────────────────────────

func TestSendReport_ShortResultsTupleStillRenders(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/send-report",
		map[string]any{
			"email": "a@b.com",
			"reportData": map[string]any{
				"results": []string{"Eczema"},
			},
		})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rr.Code, rr.Body.String())
	}
	sent := deps.mailer.sent[0]
	if !strings.Contains(sent.HTML, "No description available") {
		t.Error("mail HTML missing the description default")
	}
	if !strings.Contains(sent.HTML, "No specific treatments available") {
		t.Error("mail HTML missing the treatments placeholder")
	}
}
