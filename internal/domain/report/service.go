package report

import (
	"context"
)

// ReportService is the consumer-side surface: fetching pushed reports,
// exporting them, posting leave requests back, and keeping per-client
// preferences.
type ReportService interface {
	GetPreferences(ctx context.Context, clientID string) (Preferences, error)
	UpdatePreferences(ctx context.Context, clientID string, req UpdatePreferencesRequest) (Preferences, error)

	FetchReport(ctx context.Context, clientID string, req FetchRequest) (CachedReport, error)
	GetCachedReport(ctx context.Context, clientID string) (CachedReport, error)
	ExportCSV(ctx context.Context, clientID string, filter RowFilter) ([]byte, error)

	SubmitLeaveRequest(ctx context.Context, clientID string, sub LeaveSubmission) error
}
