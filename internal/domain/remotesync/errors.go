package remotesync

import "errors"

// Remote-sync errors. All three sync failure kinds are non-fatal: the
// manager records them, schedules a retry and keeps running.
var (
	ErrSyncDisabled         = errors.New("remote sync is disabled or has no endpoint")
	ErrPayloadBuildFailure  = errors.New("failed to build sync payload")
	ErrTransportUnavailable = errors.New("no http transport available")
	ErrSettingsNotFound     = errors.New("remote sync settings not found")
)
