package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/report"
	"github.com/him1art1-dotcom/had-sub003/internal/handler/http/response"
)

// clientIDHeader identifies the report consumer so preferences and the
// cached payload survive across requests. Falls back to "default" for
// single-user installs.
const clientIDHeader = "X-Client-Id"

type ReportHandler interface {
	Fetch(w http.ResponseWriter, r *http.Request)
	GetCached(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
	SubmitLeaveRequest(w http.ResponseWriter, r *http.Request)
	GetPreferences(w http.ResponseWriter, r *http.Request)
	UpdatePreferences(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func clientID(r *http.Request) string {
	if id := r.Header.Get(clientIDHeader); id != "" {
		return id
	}
	return "default"
}

// Fetch implements ReportHandler.
func (h *reportHandlerImpl) Fetch(w http.ResponseWriter, r *http.Request) {
	req := report.FetchRequest{
		Day:        r.URL.Query().Get("day"),
		Supervisor: r.URL.Query().Get("supervisor"),
	}
	if req.Day == "" {
		req.Day = time.Now().Format("2006-01-02")
	}

	result, err := h.reportService.FetchReport(r.Context(), clientID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetCached implements ReportHandler.
func (h *reportHandlerImpl) GetCached(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetCachedReport(r.Context(), clientID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportCSV implements ReportHandler. Streams the filtered rows of the
// cached report as a CSV download.
func (h *reportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter := report.RowFilter{
		Supervisor: r.URL.Query().Get("supervisor"),
		Status:     r.URL.Query().Get("status"),
		Search:     r.URL.Query().Get("search"),
	}

	data, err := h.reportService.ExportCSV(r.Context(), clientID(r), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// SubmitLeaveRequest implements ReportHandler.
func (h *reportHandlerImpl) SubmitLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var sub report.LeaveSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.reportService.SubmitLeaveRequest(r.Context(), clientID(r), sub); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request submitted", nil)
}

// GetPreferences implements ReportHandler.
func (h *reportHandlerImpl) GetPreferences(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetPreferences(r.Context(), clientID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdatePreferences implements ReportHandler.
func (h *reportHandlerImpl) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req report.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.UpdatePreferences(r.Context(), clientID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Preferences updated", result)
}
