package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/handler/http/response"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/broadcast"
	remotesyncservice "github.com/him1art1-dotcom/had-sub003/internal/service/remotesync"
)

type SyncHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	GetState(w http.ResponseWriter, r *http.Request)
	TriggerSync(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
}

type syncHandlerImpl struct {
	syncService remotesyncservice.SyncService
	hub         *broadcast.Hub
}

func NewSyncHandler(syncService remotesyncservice.SyncService, hub *broadcast.Hub) SyncHandler {
	return &syncHandlerImpl{
		syncService: syncService,
		hub:         hub,
	}
}

// GetSettings implements SyncHandler.
func (h *syncHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateSettings implements SyncHandler.
func (h *syncHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req remotesync.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.syncService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sync settings updated", result)
}

// GetState implements SyncHandler.
func (h *syncHandlerImpl) GetState(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncService.GetState(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TriggerSync implements SyncHandler. The request goes onto the broadcast
// channel; whichever manager owns the loop picks it up.
func (h *syncHandlerImpl) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if err := h.syncService.RequestSync(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sync requested", nil)
}

// Events implements SyncHandler. It is the HTTP face of the broadcast
// channel: every status/state/leave-requests-applied message the manager
// publishes is streamed to the client as a server-sent event.
func (h *syncHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	messages, cleanup := h.hub.Subscribe(broadcast.SyncChannel)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"channel\":%q}\n\n", broadcast.SyncChannel)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
