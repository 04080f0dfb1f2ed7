package response

import (
	"errors"
	"net/http"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/attendance"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/report"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Roster domain errors
	case errors.Is(err, student.ErrStudentNotFound):
		NotFound(w, "Student not found")
	case errors.Is(err, student.ErrStudentIDExists):
		Conflict(w, "Student id already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Student has already checked in today")
	case errors.Is(err, attendance.ErrArrivalNotFound):
		NotFound(w, "Arrival record not found")

	// Remote sync errors
	case errors.Is(err, remotesync.ErrSettingsNotFound):
		NotFound(w, "Sync settings not found")
	case errors.Is(err, remotesync.ErrSyncDisabled):
		BadRequest(w, "Remote sync is disabled", nil)

	// Report client errors
	case errors.Is(err, report.ErrNoEndpoint):
		BadRequest(w, "Report endpoint is not configured", nil)
	case errors.Is(err, report.ErrNoCachedReport):
		NotFound(w, "No cached report available")
	case errors.Is(err, report.ErrUnknownSupervisor):
		BadRequest(w, "Supervisor is not present in the report", nil)
	case errors.Is(err, report.ErrFetchFailed):
		BadGateway(w, "Failed to fetch report from endpoint")
	case errors.Is(err, report.ErrSubmissionFailed):
		BadGateway(w, "Failed to submit leave request")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
