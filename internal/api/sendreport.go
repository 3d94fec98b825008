package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/nyashahama/derma-analyzer-backend/internal/report"
)

// stepPipeline is the step marker attached to 500 responses so the client can
// distinguish pipeline failures from request validation.
const stepPipeline = "PDF generation or email sending"

// sendReportRequest uses pointers so a `{}` body (both fields absent) is
// distinguishable from `{"email":""}` — the two cases return different
// validation messages.
type sendReportRequest struct {
	Email      *string      `json:"email"`
	ReportData *report.Data `json:"reportData"`
}

// ─── POST /api/send-report ────────────────────────────────────────────────────

// handleSendReport validates the payload, then sequences HTML render → PDF
// render → SMTP dispatch. The server is single-attempt and idempotent per
// call: re-sending an identical payload simply sends another email.
func (s *Server) handleSendReport(w http.ResponseWriter, r *http.Request) {
	// Base64 image payloads never reach this endpoint, but the limit mirrors
	// the client's upload ceiling rather than guessing a tighter one.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 50<<20))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "Request body is missing")
		return
	}

	var req sendReportRequest
	if len(body) == 0 || json.Unmarshal(body, &req) != nil ||
		(req.Email == nil && req.ReportData == nil) {
		respondErr(w, http.StatusBadRequest, "Request body is missing")
		return
	}

	if req.Email == nil || *req.Email == "" {
		respondErr(w, http.StatusBadRequest, "Email address is required")
		return
	}

	if req.ReportData == nil || req.ReportData.Results == nil {
		respondErr(w, http.StatusBadRequest, "Report data is required")
		return
	}

	payload := report.Payload{Email: *req.Email, Data: *req.ReportData}
	log := s.logger.With("request_id", middleware.GetReqID(r.Context()), "to", payload.Email)
	log.Info("send-report: processing")

	html, err := s.renderer.Render(payload)
	if err != nil {
		s.respondPipelineErr(w, log, fmt.Errorf("render html: %w", err))
		return
	}

	pdfBuf, err := s.pdf.Render(r.Context(), html)
	if err != nil {
		s.respondPipelineErr(w, log, fmt.Errorf("generate pdf: %w", err))
		return
	}
	log.Debug("send-report: pdf generated", "bytes", len(pdfBuf))

	subject := "Skin Disease Detection Report - Analysis"
	if len(payload.Data.Results) > 0 && payload.Data.Results[report.FieldName] != "" {
		subject = "Skin Disease Detection Report - " + payload.Data.Results[report.FieldName]
	}

	result, err := s.mailer.Dispatch(r.Context(), payload.Email, subject, html, pdfBuf)
	if err != nil {
		s.respondPipelineErr(w, log, fmt.Errorf("send email: %w", err))
		return
	}

	log.Info("send-report: sent", "message_id", result.MessageID)
	respond(w, http.StatusOK, map[string]any{
		"success":   true,
		"messageId": result.MessageID,
	})
}

// respondPipelineErr reports a render/PDF/mail failure. The human-readable
// message goes to the client with the step marker; the wrapped error is
// logged server-side.
func (s *Server) respondPipelineErr(w http.ResponseWriter, log *slog.Logger, err error) {
	log.Error("send-report: pipeline failed", "error", err)
	respond(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   err.Error(),
		"step":    stepPipeline,
	})
}
