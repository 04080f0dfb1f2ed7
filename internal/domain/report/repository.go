package report

import (
	"context"
)

// ClientStore persists the report consumer's preferences and its last
// fetched payload, keyed per client id.
type ClientStore interface {
	GetPreferences(ctx context.Context, clientID string) (Preferences, error)
	SavePreferences(ctx context.Context, clientID string, prefs Preferences) error

	GetCachedReport(ctx context.Context, clientID string) (CachedReport, error)
	SaveCachedReport(ctx context.Context, clientID string, cached CachedReport) error

	// ListAutoRefreshClients returns the ids of clients whose preferences
	// have auto-refresh enabled, so the service can re-fetch for them when
	// a sync success is announced.
	ListAutoRefreshClients(ctx context.Context) ([]string, error)
}
