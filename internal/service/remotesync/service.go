package remotesync

import (
	"context"
	"errors"
	"fmt"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/broadcast"
)

// SyncService is the admin-facing surface over settings and sync control.
type SyncService interface {
	GetSettings(ctx context.Context) (remotesync.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req remotesync.UpdateSettingsRequest) (remotesync.SettingsResponse, error)
	GetState(ctx context.Context) (remotesync.SyncState, error)
	// RequestSync asks whoever owns the sync loop for an immediate attempt.
	// It goes through the coordination channel so any number of frontends
	// share one push instead of each making their own.
	RequestSync(ctx context.Context) error
}

type syncServiceImpl struct {
	settingsRepo remotesync.SettingsRepository
	manager      *Manager
	hub          *broadcast.Hub
	schoolCode   string
}

func NewSyncService(
	settingsRepo remotesync.SettingsRepository,
	manager *Manager,
	hub *broadcast.Hub,
	schoolCode string,
) SyncService {
	return &syncServiceImpl{
		settingsRepo: settingsRepo,
		manager:      manager,
		hub:          hub,
		schoolCode:   schoolCode,
	}
}

// GetSettings implements SyncService.
func (s *syncServiceImpl) GetSettings(ctx context.Context) (remotesync.SettingsResponse, error) {
	raw, err := s.settingsRepo.Get(ctx, s.schoolCode)
	if err != nil {
		if errors.Is(err, remotesync.ErrSettingsNotFound) {
			raw = remotesync.RawSettings{SchoolCode: s.schoolCode}
		} else {
			return remotesync.SettingsResponse{}, fmt.Errorf("failed to load settings: %w", err)
		}
	}
	return remotesync.SettingsResponse{
		Raw:        raw,
		Normalized: NormalizeSettings(raw).View(),
	}, nil
}

// UpdateSettings implements SyncService. The raw blob is stored as
// submitted; the response carries both the raw form and the normalized view
// including the canonical supervisor text and any parse errors.
func (s *syncServiceImpl) UpdateSettings(ctx context.Context, req remotesync.UpdateSettingsRequest) (remotesync.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return remotesync.SettingsResponse{}, err
	}

	raw := req.RawSettings
	if raw.SchoolCode == "" {
		raw.SchoolCode = s.schoolCode
	}

	if err := s.settingsRepo.Save(ctx, s.schoolCode, raw); err != nil {
		return remotesync.SettingsResponse{}, fmt.Errorf("failed to save settings: %w", err)
	}

	// The schedule may have moved; let the manager recompute its wake-up.
	if s.manager != nil {
		s.manager.Refresh(ctx)
	}

	return remotesync.SettingsResponse{
		Raw:        raw,
		Normalized: NormalizeSettings(raw).View(),
	}, nil
}

// GetState implements SyncService.
func (s *syncServiceImpl) GetState(ctx context.Context) (remotesync.SyncState, error) {
	if s.manager != nil {
		return s.manager.State(), nil
	}
	return remotesync.SyncState{}, nil
}

// RequestSync implements SyncService.
func (s *syncServiceImpl) RequestSync(ctx context.Context) error {
	s.hub.Publish(broadcast.SyncChannel, broadcast.Message{Type: broadcast.TypeRequestSync})
	return nil
}
