package remotesync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/leave"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/domain/student"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/broadcast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	settings   remotesync.Settings
	students   []student.Student
	attendance map[string]map[string]string
	applier    leave.Applier
}

func (h *fakeHost) Settings(ctx context.Context) (remotesync.Settings, error) {
	return h.settings, nil
}

func (h *fakeHost) Students(ctx context.Context) ([]student.Student, error) {
	return h.students, nil
}

func (h *fakeHost) Attendance(ctx context.Context, days []string) (map[string]map[string]string, error) {
	return h.attendance, nil
}

func (h *fakeHost) LeaveApplier() leave.Applier {
	return h.applier
}

type fakeStateRepo struct {
	mu    sync.Mutex
	state remotesync.SyncState
	saves int
}

func (r *fakeStateRepo) Get(ctx context.Context, schoolCode string) (remotesync.SyncState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, nil
}

func (r *fakeStateRepo) Save(ctx context.Context, schoolCode string, state remotesync.SyncState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.saves++
	return nil
}

type applierFunc func(ctx context.Context, requests []leave.Request) ([]string, error)

func (f applierFunc) ApplyLeaveRequests(ctx context.Context, requests []leave.Request) ([]string, error) {
	return f(ctx, requests)
}

func managerFixture(endpoint string, applier leave.Applier) (*Manager, *fakeHost, *fakeStateRepo, *broadcast.Hub) {
	host := &fakeHost{
		settings: NormalizeSettings(remotesync.RawSettings{
			Enabled:    true,
			Endpoint:   endpoint,
			SchoolCode: "sch-1",
		}),
		students: []student.Student{
			{ID: "st1", Name: "Aya", Grade: "6", Class: "6A"},
		},
		attendance: map[string]map[string]string{},
		applier:    applier,
	}
	stateRepo := &fakeStateRepo{}
	hub := broadcast.NewHub()

	m := NewManager(host, stateRepo, hub, &http.Client{Timeout: 5 * time.Second}, "sch-1")
	m.SetClock(func() time.Time {
		return time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	})
	return m, host, stateRepo, hub
}

func collectEvents(t *testing.T, hub *broadcast.Hub) (events func() []remotesync.StatusEvent, stop func()) {
	t.Helper()
	ch, cleanup := hub.Subscribe(broadcast.SyncChannel)

	var mu sync.Mutex
	var got []remotesync.StatusEvent
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range ch {
			if event, ok := msg.Payload.(remotesync.StatusEvent); ok {
				mu.Lock()
				got = append(got, event)
				mu.Unlock()
			}
		}
	}()

	return func() []remotesync.StatusEvent {
			cleanup()
			<-done
			mu.Lock()
			defer mu.Unlock()
			return got
		}, func() {
			cleanup()
		}
}

func TestTriggerSyncSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer server.Close()

	m, _, stateRepo, hub := managerFixture(server.URL, nil)
	events, _ := collectEvents(t, hub)

	require.NoError(t, m.TriggerSync(context.Background(), "manual"))

	state := m.State()
	assert.Equal(t, remotesync.StatusSuccess, state.LastStatus)
	assert.Equal(t, "2026-03-09", state.LastSuccessDay)
	assert.Equal(t, "2026-03-09", state.LastAttemptDay)
	assert.Nil(t, state.PendingRetryAt)
	assert.Empty(t, state.LastError)
	require.NotNil(t, state.LastSummary)
	assert.Equal(t, 1, state.LastSummary.Total)

	// Pending then success were both persisted.
	assert.GreaterOrEqual(t, stateRepo.saves, 2)

	var statuses []string
	for _, e := range events() {
		if e.Kind == remotesync.EventKindStatus {
			statuses = append(statuses, e.Status)
		}
	}
	assert.Equal(t, []string{remotesync.StatusSuccess}, statuses)
}

func TestTriggerSyncHTTPFailureSchedulesRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	m, host, _, hub := managerFixture(server.URL, nil)
	events, _ := collectEvents(t, hub)

	require.NoError(t, m.TriggerSync(context.Background(), "manual"))

	state := m.State()
	assert.Equal(t, remotesync.StatusError, state.LastStatus)
	assert.Equal(t, "HTTP 502", state.LastError)
	require.NotNil(t, state.PendingRetryAt)
	assert.Equal(t, m.now().Add(RetryDelay), *state.PendingRetryAt)

	// The retry timestamp defers any re-attempt until it comes up.
	assert.False(t, ShouldRunNow(host.settings, state, m.now()))
	assert.True(t, ShouldRunNow(host.settings, state, m.now().Add(RetryDelay+time.Second)))

	var sawError bool
	for _, e := range events() {
		if e.Kind == remotesync.EventKindStatus && e.Status == remotesync.StatusError {
			sawError = true
			assert.Equal(t, "HTTP 502", e.Error)
		}
	}
	assert.True(t, sawError)
}

func TestTriggerSyncAppliesInboundLeaveRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"leaveRequests":[{"id":"lr1","studentId":"st1","reason":"sick"}]}`))
	}))
	defer server.Close()

	var received []leave.Request
	applier := applierFunc(func(ctx context.Context, requests []leave.Request) ([]string, error) {
		received = requests
		return []string{"lr1"}, nil
	})

	m, _, _, hub := managerFixture(server.URL, applier)
	events, _ := collectEvents(t, hub)

	require.NoError(t, m.TriggerSync(context.Background(), "manual"))

	require.Len(t, received, 1)
	assert.Equal(t, "st1", received[0].StudentID)

	// The applied ids replace the pending acknowledgement baseline.
	assert.Equal(t, []string{"lr1"}, m.State().PendingLeaveAck)

	var sawApplied bool
	for _, e := range events() {
		if e.Kind == remotesync.EventKindLeaveApplied {
			sawApplied = true
			assert.Equal(t, []string{"lr1"}, e.AppliedIDs)
		}
	}
	assert.True(t, sawApplied)
}

func TestTriggerSyncDisabledWritesNoState(t *testing.T) {
	m, host, stateRepo, hub := managerFixture("https://reports.example.com/sync", nil)
	host.settings.Enabled = false
	events, _ := collectEvents(t, hub)

	require.NoError(t, m.TriggerSync(context.Background(), "manual"))

	assert.Zero(t, stateRepo.saves)
	assert.Empty(t, m.State().LastStatus)

	got := events()
	require.Len(t, got, 1)
	assert.Equal(t, remotesync.StatusDisabled, got[0].Status)
}

func TestTriggerSyncCarriesPendingAcksUntilNextSuccess(t *testing.T) {
	var lastAcks []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload remotesync.Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		lastAcks = payload.AcknowledgedLeaveRequests
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	m, _, stateRepo, _ := managerFixture(server.URL, nil)
	stateRepo.state = remotesync.SyncState{PendingLeaveAck: []string{"lr9"}}
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()

	require.NoError(t, m.TriggerSync(context.Background(), "manual"))

	// The pending ack rode along on the payload, and with no new inbound
	// requests the baseline is cleared.
	assert.Equal(t, []string{"lr9"}, lastAcks)
	assert.Empty(t, m.State().PendingLeaveAck)
}

func TestStartAndStopAreIdempotent(t *testing.T) {
	m, _, _, _ := managerFixture("https://reports.example.com/sync", nil)

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Start(context.Background()))
	m.Stop()
	m.Stop()
}
