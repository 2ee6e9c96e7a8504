package rest

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/abgdnv/wingscafe/internal/service"
	"github.com/abgdnv/wingscafe/pkg/web"
	"github.com/go-chi/chi/v5"
)

// Dashboard returns the overview counts.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Reports.Dashboard(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "build dashboard")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, dashboard)
}

// Report returns the report named by the path with its rows and summary.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	kind, period, ok := h.parseReportRequest(w, r)
	if !ok {
		return
	}
	table, err := h.Reports.Table(r.Context(), kind, period)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("build %s report", kind))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, table)
}

// ExportReport returns the report named by the path as a CSV attachment.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	kind, period, ok := h.parseReportRequest(w, r)
	if !ok {
		return
	}
	table, err := h.Reports.Table(r.Context(), kind, period)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("build %s report", kind))
		return
	}
	var buf bytes.Buffer
	if err := service.ExportCSV(&buf, table); err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("export %s report", kind))
		return
	}
	filename := fmt.Sprintf("%s_report_%s.csv", kind, time.Now().UTC().Format(time.DateOnly))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// parseReportRequest reads the report type from the path and the optional from/to dates (YYYY-MM-DD).
func (h *Handler) parseReportRequest(w http.ResponseWriter, r *http.Request) (service.ReportKind, service.Period, bool) {
	kind, err := service.ParseReportKind(chi.URLParam(r, "type"))
	if err != nil {
		h.respondServiceError(w, r, err, "parse report type")
		return "", service.Period{}, false
	}
	var period service.Period
	for key, dst := range map[string]**time.Time{"from": &period.From, "to": &period.To} {
		value := r.URL.Query().Get(key)
		if value == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, value)
		if err != nil {
			web.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s date: %s", key, value))
			return "", service.Period{}, false
		}
		*dst = &t
	}
	return kind, period, true
}
