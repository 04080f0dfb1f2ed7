package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/report"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/broadcast"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/timeutil"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/validator"
)

// AllRecipientID mirrors the synthetic first recipient of every payload.
const AllRecipientID = "all"

const maxReportBody = 4 << 20

// Client fetches previously pushed reports from the remote endpoint,
// caches the last good payload per client, and posts leave requests back.
// Fetch and submission failures are reported to the caller only; they never
// touch the push scheduler's state.
type Client struct {
	store      report.ClientStore
	hub        *broadcast.Hub
	httpClient *http.Client
	now        func() time.Time

	mu          sync.Mutex
	running     bool
	unsubscribe func()
}

func NewClient(store report.ClientStore, hub *broadcast.Hub, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		store:      store,
		hub:        hub,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (c *Client) SetClock(now func() time.Time) {
	c.now = now
}

// Start subscribes to the sync channel so that clients with the
// auto-refresh preference get a fresh fetch after every announced success.
// Idempotent.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.hub == nil {
		return
	}
	c.running = true

	ch, cleanup := c.hub.Subscribe(broadcast.SyncChannel)
	c.unsubscribe = cleanup
	go c.listen(ctx, ch)
}

// Stop tears the hub subscription down. Idempotent.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Client) listen(ctx context.Context, ch chan broadcast.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Type != broadcast.TypeStatus {
				continue
			}
			event, ok := msg.Payload.(remotesync.StatusEvent)
			if !ok {
				continue
			}
			if event.Kind == remotesync.EventKindStatus && event.Status == remotesync.StatusSuccess {
				c.autoRefresh(ctx)
			}
		}
	}
}

func (c *Client) autoRefresh(ctx context.Context) {
	ids, err := c.store.ListAutoRefreshClients(ctx)
	if err != nil {
		slog.Error("failed to list auto-refresh clients", slog.Any("error", err))
		return
	}
	for _, id := range ids {
		if _, err := c.FetchReport(ctx, id, report.FetchRequest{Day: timeutil.DayKey(c.now())}); err != nil {
			slog.Error("auto-refresh fetch failed",
				slog.String("client_id", id),
				slog.Any("error", err))
		}
	}
}

// GetPreferences implements report.ReportService. A client that never saved
// preferences gets the zero value, not an error.
func (c *Client) GetPreferences(ctx context.Context, clientID string) (report.Preferences, error) {
	prefs, err := c.store.GetPreferences(ctx, clientID)
	if err != nil {
		return report.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

// UpdatePreferences implements report.ReportService.
func (c *Client) UpdatePreferences(ctx context.Context, clientID string, req report.UpdatePreferencesRequest) (report.Preferences, error) {
	if err := req.Validate(); err != nil {
		return report.Preferences{}, err
	}
	if err := c.store.SavePreferences(ctx, clientID, req.Preferences); err != nil {
		return report.Preferences{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return req.Preferences, nil
}

// FetchReport implements report.ReportService. On success the payload is
// cached so the portal keeps rendering when the endpoint goes away.
func (c *Client) FetchReport(ctx context.Context, clientID string, req report.FetchRequest) (report.CachedReport, error) {
	if err := req.Validate(); err != nil {
		return report.CachedReport{}, err
	}

	prefs, err := c.store.GetPreferences(ctx, clientID)
	if err != nil {
		return report.CachedReport{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	if strings.TrimSpace(prefs.Endpoint) == "" {
		return report.CachedReport{}, report.ErrNoEndpoint
	}

	supervisor := req.Supervisor
	if supervisor == "" {
		supervisor = prefs.Supervisor
	}

	payload, err := c.fetch(ctx, prefs, req.Day, supervisor)
	if err != nil {
		return report.CachedReport{}, err
	}

	cached := report.CachedReport{
		FetchedAt: c.now(),
		Day:       payload.Day,
		Payload:   payload,
	}
	if err := c.store.SaveCachedReport(ctx, clientID, cached); err != nil {
		return report.CachedReport{}, fmt.Errorf("failed to cache report: %w", err)
	}
	return cached, nil
}

func (c *Client) fetch(ctx context.Context, prefs report.Preferences, day, supervisor string) (remotesync.Payload, error) {
	query := url.Values{}
	query.Set("school", prefs.SchoolCode)
	query.Set("day", day)
	if supervisor != "" && supervisor != AllRecipientID {
		query.Set("supervisor", supervisor)
	}

	reqURL := prefs.Endpoint
	if strings.Contains(reqURL, "?") {
		reqURL += "&" + query.Encode()
	} else {
		reqURL += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return remotesync.Payload{}, fmt.Errorf("%w: %v", report.ErrFetchFailed, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if prefs.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+prefs.AuthToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return remotesync.Payload{}, fmt.Errorf("%w: %v", report.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBody))
	if err != nil {
		return remotesync.Payload{}, fmt.Errorf("%w: %v", report.ErrFetchFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remotesync.Payload{}, fmt.Errorf("%w: HTTP %d", report.ErrFetchFailed, resp.StatusCode)
	}

	var payload remotesync.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return remotesync.Payload{}, fmt.Errorf("%w: %v", report.ErrFetchFailed, err)
	}
	return payload, nil
}

// GetCachedReport implements report.ReportService.
func (c *Client) GetCachedReport(ctx context.Context, clientID string) (report.CachedReport, error) {
	cached, err := c.store.GetCachedReport(ctx, clientID)
	if err != nil {
		if errors.Is(err, report.ErrNoCachedReport) {
			return report.CachedReport{}, report.ErrNoCachedReport
		}
		return report.CachedReport{}, fmt.Errorf("failed to load cached report: %w", err)
	}
	return cached, nil
}

// ExportCSV implements report.ReportService. It exports the currently
// cached payload's rows, narrowed by the filter, as an RFC 4180 document.
func (c *Client) ExportCSV(ctx context.Context, clientID string, filter report.RowFilter) ([]byte, error) {
	cached, err := c.GetCachedReport(ctx, clientID)
	if err != nil {
		return nil, err
	}
	rows := selectRows(cached.Payload, filter.Supervisor)
	rows = filterRows(rows, filter)
	return marshalCSV(rows)
}

// SubmitLeaveRequest implements report.ReportService. All field-level
// validation happens before any network traffic.
func (c *Client) SubmitLeaveRequest(ctx context.Context, clientID string, sub report.LeaveSubmission) error {
	prefs, err := c.store.GetPreferences(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	var errs validator.ValidationErrors
	if validator.IsEmpty(prefs.Endpoint) {
		errs = append(errs, validator.ValidationError{
			Field:   "endpoint",
			Message: "endpoint is not configured",
		})
	}
	if validator.IsEmpty(prefs.SchoolCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "school_code",
			Message: "school code is not configured",
		})
	}
	if validator.IsEmpty(sub.StudentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "student_id",
			Message: "student id is required",
		})
	}
	if validator.IsEmpty(sub.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if sub.Day != "" {
		if _, ok := validator.IsValidDate(sub.Day); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "day",
				Message: "day must be YYYY-MM-DD",
			})
		}
	}

	supervisorName, nameErr := c.resolveSupervisorName(ctx, clientID, prefs.Supervisor)
	if nameErr != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "supervisor",
			Message: "supervisor is not present in the current report",
		})
	}
	if len(errs) > 0 {
		return errs
	}

	day := sub.Day
	if day == "" {
		day = timeutil.DayKey(c.now())
	}

	body := map[string]interface{}{
		"kind":       "leave-request",
		"school":     prefs.SchoolCode,
		"supervisor": supervisorName,
		"request": map[string]interface{}{
			"studentId": sub.StudentID,
			"reason":    sub.Reason,
			"day":       day,
		},
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrSubmissionFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, prefs.Endpoint, strings.NewReader(string(encoded)))
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrSubmissionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if prefs.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+prefs.AuthToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxReportBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", report.ErrSubmissionFailed, resp.StatusCode)
	}
	return nil
}

// resolveSupervisorName maps the preferred supervisor id to its display
// name using the cached payload's recipient list. The synthetic "all"
// recipient (or no preference at all) resolves to "all".
func (c *Client) resolveSupervisorName(ctx context.Context, clientID, supervisorID string) (string, error) {
	if supervisorID == "" || supervisorID == AllRecipientID {
		return AllRecipientID, nil
	}
	cached, err := c.store.GetCachedReport(ctx, clientID)
	if err != nil {
		return "", report.ErrUnknownSupervisor
	}
	for _, recipient := range cached.Payload.Recipients {
		if recipient.ID == supervisorID {
			if recipient.Name != "" {
				return recipient.Name, nil
			}
			return recipient.ID, nil
		}
	}
	return "", report.ErrUnknownSupervisor
}

// selectRows picks the row set the filter's supervisor sees: the global
// list for "all" (or unknown ids, matching the portal's fallback), the
// per-supervisor package otherwise.
func selectRows(payload remotesync.Payload, supervisorID string) []remotesync.Row {
	if supervisorID != "" && supervisorID != AllRecipientID {
		if pkg, ok := payload.Packages.BySupervisor[supervisorID]; ok {
			return pkg.Rows
		}
	}
	return payload.Packages.All.Rows
}

func filterRows(rows []remotesync.Row, filter report.RowFilter) []remotesync.Row {
	out := make([]remotesync.Row, 0, len(rows))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, row := range rows {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if search != "" && !rowMatchesSearch(row, search) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func rowMatchesSearch(row remotesync.Row, search string) bool {
	for _, field := range []string{row.ID, row.Name, row.Grade, row.Class} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
