package remotesync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/broadcast"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/timeutil"
)

// maxResponseBody caps how much of a sync response is read for leave-request
// extraction.
const maxResponseBody = 1 << 20

// Manager owns the sync state machine: idle -> pending -> success|error,
// with error scheduling a fixed retry. It is the only writer of the
// persisted SyncState. All coordination state lives on the struct, there are
// no package-level globals.
type Manager struct {
	host       remotesync.Host
	stateRepo  remotesync.StateRepository
	hub        *broadcast.Hub
	httpClient *http.Client
	schoolCode string
	now        func() time.Time

	mu          sync.Mutex
	running     bool
	inFlight    bool
	timer       *time.Timer
	state       remotesync.SyncState
	unsubscribe func()
}

// NewManager creates a sync manager. httpClient may be nil, in which case
// every attempt fails over to the transport-unavailable error path.
func NewManager(
	host remotesync.Host,
	stateRepo remotesync.StateRepository,
	hub *broadcast.Hub,
	httpClient *http.Client,
	schoolCode string,
) *Manager {
	return &Manager{
		host:       host,
		stateRepo:  stateRepo,
		hub:        hub,
		httpClient: httpClient,
		schoolCode: schoolCode,
		now:        time.Now,
	}
}

// SetClock overrides the clock for testing.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Start loads persisted state, subscribes to the coordination channel and
// arms the wake-up timer. Calling Start on a running manager is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.mu.Unlock()

	state, err := m.stateRepo.Get(ctx, m.schoolCode)
	if err != nil {
		// A missing or unreadable state row means a fresh start, not a
		// fatal condition.
		slog.Warn("sync manager: starting with empty state", "error", err)
		state = remotesync.SyncState{}
	}
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()

	msgCh, cancel := m.hub.Subscribe(broadcast.SyncChannel)
	m.mu.Lock()
	m.unsubscribe = cancel
	m.mu.Unlock()
	go m.listen(msgCh)

	m.Refresh(ctx)
	slog.Info("sync manager started", "school", m.schoolCode)
	return nil
}

// Stop disarms the timer and unsubscribes. Idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	slog.Info("sync manager stopped", "school", m.schoolCode)
}

// Refresh recomputes the next wake-up without waiting for the current timer.
func (m *Manager) Refresh(ctx context.Context) {
	settings, err := m.host.Settings(ctx)
	delay := DefaultDelay
	if err == nil {
		m.mu.Lock()
		state := m.state
		m.mu.Unlock()
		delay = NextDelay(settings, state, m.now())
	}
	m.rearm(delay)
}

// State returns a snapshot of the current sync state.
func (m *Manager) State() remotesync.SyncState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

func (m *Manager) rearm(delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(delay, m.onTimer)
	slog.Debug("sync manager rearmed", "delay", delay)
}

func (m *Manager) onTimer() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	settings, err := m.host.Settings(ctx)
	if err != nil {
		slog.Error("sync manager: settings unavailable", "error", err)
		m.rearm(DefaultDelay)
		return
	}

	m.mu.Lock()
	state := m.state
	m.mu.Unlock()

	if ShouldRunNow(settings, state, m.now()) {
		if err := m.TriggerSync(ctx, "scheduled"); err != nil {
			slog.Error("sync manager: scheduled sync failed", "error", err)
		}
		return
	}
	m.rearm(NextDelay(settings, state, m.now()))
}

// listen consumes coordination messages: any publisher can force a sync or
// request a passive state snapshot.
func (m *Manager) listen(msgCh chan broadcast.Message) {
	for msg := range msgCh {
		switch msg.Type {
		case broadcast.TypeRequestSync:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			if err := m.TriggerSync(ctx, "request-sync"); err != nil {
				slog.Error("sync manager: requested sync failed", "error", err)
			}
			cancel()
		case broadcast.TypeStateRequest:
			state := m.State()
			m.publish(remotesync.StatusEvent{
				Kind:  remotesync.EventKindState,
				State: &state,
			})
		}
	}
}

// TriggerSync runs one full sync attempt. It is the single authoritative
// state transition; every entry point (timer, manual, broadcast request)
// funnels through here. A second call while an attempt is in flight returns
// immediately.
func (m *Manager) TriggerSync(ctx context.Context, reason string) error {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		slog.Debug("sync manager: attempt already in flight", "reason", reason)
		return nil
	}
	m.inFlight = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	settings, err := m.host.Settings(ctx)
	if err != nil {
		return m.failAttempt(ctx, settings, reason, fmt.Errorf("%w: %v", remotesync.ErrPayloadBuildFailure, err), false)
	}

	// Disabled or unconfigured sync is not an error and writes no state.
	if !settings.Enabled || settings.Endpoint == "" {
		m.publish(remotesync.StatusEvent{
			Kind:   remotesync.EventKindStatus,
			Status: remotesync.StatusDisabled,
			Reason: reason,
		})
		m.rearmFor(ctx, settings)
		return nil
	}

	now := m.now()
	day := timeutil.DayKey(now)

	m.mu.Lock()
	pendingAcks := append([]string(nil), m.state.PendingLeaveAck...)
	m.state.LastAttemptAt = &now
	m.state.LastAttemptDay = day
	m.state.LastStatus = remotesync.StatusPending
	m.state.LastError = ""
	m.state.PendingRetryAt = nil
	m.mu.Unlock()
	m.persistState(ctx)

	payload, err := m.buildPayload(ctx, settings, now, pendingAcks)
	if err != nil {
		return m.failAttempt(ctx, settings, reason, fmt.Errorf("%w: %v", remotesync.ErrPayloadBuildFailure, err), true)
	}

	if m.httpClient == nil {
		return m.failAttempt(ctx, settings, reason, remotesync.ErrTransportUnavailable, true)
	}

	body, err := m.push(ctx, settings, payload)
	if err != nil {
		return m.failAttempt(ctx, settings, reason, err, true)
	}

	applied := m.applyInboundLeaveRequests(ctx, body)

	successAt := m.now()
	m.mu.Lock()
	m.state.LastStatus = remotesync.StatusSuccess
	m.state.LastSuccessAt = &successAt
	m.state.LastSuccessDay = payload.Day
	summary := payload.Summary
	m.state.LastSummary = &summary
	m.state.LastError = ""
	m.state.PendingRetryAt = nil
	m.state.PendingLeaveAck = applied
	m.mu.Unlock()
	m.persistState(ctx)

	var response interface{}
	if len(body) > 0 {
		// Non-JSON bodies are tolerated; the event simply omits them.
		_ = json.Unmarshal(body, &response)
	}
	m.publish(remotesync.StatusEvent{
		Kind:     remotesync.EventKindStatus,
		Status:   remotesync.StatusSuccess,
		Reason:   reason,
		Summary:  &summary,
		Payload:  &payload,
		Response: response,
	})
	if len(applied) > 0 {
		m.publish(remotesync.StatusEvent{
			Kind:       remotesync.EventKindLeaveApplied,
			AppliedIDs: applied,
		})
	}

	slog.Info("sync succeeded",
		"school", settings.SchoolCode,
		"day", payload.Day,
		"present", summary.Present,
		"late", summary.Late,
		"absent", summary.Absent,
		"applied_leave_requests", len(applied),
	)

	m.rearmFor(ctx, settings)
	return nil
}

func (m *Manager) buildPayload(ctx context.Context, settings remotesync.Settings, now time.Time, acks []string) (remotesync.Payload, error) {
	students, err := m.host.Students(ctx)
	if err != nil {
		return remotesync.Payload{}, fmt.Errorf("load roster: %w", err)
	}
	day := timeutil.DayKey(now)
	attendanceByDay, err := m.host.Attendance(ctx, []string{day})
	if err != nil {
		return remotesync.Payload{}, fmt.Errorf("load attendance: %w", err)
	}
	return BuildPayload(students, attendanceByDay, settings, now, BuildOptions{
		AcknowledgedLeaveRequests: acks,
	}), nil
}

// push POSTs the payload and returns the response body. Any network failure
// or non-2xx status is an error whose message feeds the error state.
func (m *Manager) push(ctx context.Context, settings remotesync.Settings, payload remotesync.Payload) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.Endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if settings.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+settings.AuthToken)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return body, nil
}

func (m *Manager) applyInboundLeaveRequests(ctx context.Context, body []byte) []string {
	requests := ExtractLeaveRequests(body)
	if len(requests) == 0 {
		return nil
	}
	applier := m.host.LeaveApplier()
	if applier == nil {
		slog.Warn("sync manager: inbound leave requests dropped, no applier", "count", len(requests))
		return nil
	}
	applied, err := applier.ApplyLeaveRequests(ctx, requests)
	if err != nil {
		slog.Error("sync manager: failed to apply leave requests", "error", err)
		return nil
	}
	return applied
}

// failAttempt is the shared error path: record the failure, schedule the
// fixed retry, emit the status event and rearm. When writeState is false the
// attempt never reached the pending write and only the event is emitted.
func (m *Manager) failAttempt(ctx context.Context, settings remotesync.Settings, reason string, cause error, writeState bool) error {
	msg := cause.Error()
	now := m.now()

	if writeState {
		retryAt := now.Add(RetryDelay)
		m.mu.Lock()
		m.state.LastStatus = remotesync.StatusError
		m.state.LastError = msg
		m.state.PendingRetryAt = &retryAt
		m.mu.Unlock()
		m.persistState(ctx)
	}

	m.publish(remotesync.StatusEvent{
		Kind:   remotesync.EventKindStatus,
		Status: remotesync.StatusError,
		Reason: reason,
		Error:  msg,
	})

	slog.Error("sync attempt failed", "school", m.schoolCode, "reason", reason, "error", msg)

	m.rearmFor(ctx, settings)
	return nil
}

func (m *Manager) rearmFor(ctx context.Context, settings remotesync.Settings) {
	m.mu.Lock()
	state := m.state
	m.mu.Unlock()
	m.rearm(NextDelay(settings, state, m.now()))
}

// persistState writes the state through to durable storage and broadcasts
// the snapshot so every consumer tracks the same status without issuing its
// own network call.
func (m *Manager) persistState(ctx context.Context) {
	state := m.State()
	if err := m.stateRepo.Save(ctx, m.schoolCode, state); err != nil {
		slog.Error("sync manager: failed to persist state", "error", err)
	}
	m.publish(remotesync.StatusEvent{
		Kind:  remotesync.EventKindState,
		State: &state,
	})
}

func (m *Manager) publish(event remotesync.StatusEvent) {
	m.hub.Publish(broadcast.SyncChannel, broadcast.Message{
		Type:    broadcast.TypeStatus,
		Payload: event,
	})
}
