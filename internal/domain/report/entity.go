package report

import (
	"time"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
)

// Preferences are the consumer-side settings for reading pushed reports:
// where to fetch from, which school and supervisor package to show, and
// whether to re-fetch automatically on sync success notifications.
type Preferences struct {
	Endpoint    string `json:"endpoint"`
	SchoolCode  string `json:"school_code"`
	AuthToken   string `json:"auth_token"`
	Supervisor  string `json:"supervisor"`
	AutoRefresh bool   `json:"auto_refresh"`
}

// CachedReport is the last successfully fetched payload, kept so the portal
// still renders when the remote endpoint is unreachable.
type CachedReport struct {
	FetchedAt time.Time          `json:"fetched_at"`
	Day       string             `json:"day"`
	Payload   remotesync.Payload `json:"payload"`
}
