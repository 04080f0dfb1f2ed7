package remotesync

import (
	"context"
)

// SettingsRepository persists the raw settings blob per school. The raw form
// is stored so an admin round-trips exactly what they typed; normalization
// happens on read.
type SettingsRepository interface {
	Get(ctx context.Context, schoolCode string) (RawSettings, error)
	Save(ctx context.Context, schoolCode string, raw RawSettings) error
}

// StateRepository persists SyncState per school. Last write wins; the
// manager is the only intended writer.
type StateRepository interface {
	Get(ctx context.Context, schoolCode string) (SyncState, error)
	Save(ctx context.Context, schoolCode string, state SyncState) error
}
