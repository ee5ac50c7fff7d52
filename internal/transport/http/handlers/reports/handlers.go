package reportshandler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/reports"
	"appraisal/internal/transport/http/middleware"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Reports *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Reports: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/pdf/{userID}", h.handlePDF)
		r.With(middleware.RequireAction(auth.ActionReportCSV)).Get("/export/csv", h.handleCSV)
	})
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	report, err := h.Reports.UserReport(r.Context(), actor, chi.URLParam(r, "userID"))
	if err != nil {
		shared.Fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := reports.RenderPDF(&buf, report); err != nil {
		shared.Fail(w, r, apperror.Unexpected("render pdf", err))
		return
	}
	filename := fmt.Sprintf("performance-report-%s.pdf", report.User.ID)
	writeFile(w, "application/pdf", filename, buf.Bytes())
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	rows, err := h.Reports.Export(r.Context(), actor)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, rows); err != nil {
		shared.Fail(w, r, apperror.Unexpected("write csv", err))
		return
	}
	filename := fmt.Sprintf("performance-export-%s.csv", time.Now().UTC().Format("2006-01-02"))
	writeFile(w, "text/csv; charset=utf-8", filename, buf.Bytes())
}

func writeFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
