package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/attendance"
	"github.com/him1art1-dotcom/had-sub003/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	GetDay(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-in recorded", result)
}

// GetDay implements AttendanceHandler. Defaults to today when no day is
// given, which is what the kiosk dashboard polls.
func (h *attendanceHandlerImpl) GetDay(w http.ResponseWriter, r *http.Request) {
	filter := attendance.DayFilter{
		Day: r.URL.Query().Get("day"),
	}
	if filter.Day == "" {
		filter.Day = time.Now().Format("2006-01-02")
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetDay(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
