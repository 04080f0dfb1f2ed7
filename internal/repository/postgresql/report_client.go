package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/report"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportClientStore struct {
	db *database.DB
}

func NewReportClientStore(db *database.DB) report.ClientStore {
	return &reportClientStore{db: db}
}

// GetPreferences implements report.ClientStore. Unknown clients get zero
// preferences, not an error.
func (r *reportClientStore) GetPreferences(ctx context.Context, clientID string) (report.Preferences, error) {
	q := GetQuerier(ctx, r.db)

	var prefs report.Preferences
	err := q.QueryRow(ctx,
		`SELECT preferences FROM report_clients WHERE client_id = $1`,
		clientID,
	).Scan(&prefs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Preferences{}, nil
		}
		return report.Preferences{}, fmt.Errorf("failed to get report preferences: %w", err)
	}

	return prefs, nil
}

// SavePreferences implements report.ClientStore.
func (r *reportClientStore) SavePreferences(ctx context.Context, clientID string, prefs report.Preferences) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO report_clients (client_id, preferences)
		VALUES ($1, $2)
		ON CONFLICT (client_id)
		DO UPDATE SET preferences = $2, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, clientID, prefs); err != nil {
		return fmt.Errorf("failed to save report preferences: %w", err)
	}
	return nil
}

// GetCachedReport implements report.ClientStore.
func (r *reportClientStore) GetCachedReport(ctx context.Context, clientID string) (report.CachedReport, error) {
	q := GetQuerier(ctx, r.db)

	var cached report.CachedReport
	err := q.QueryRow(ctx,
		`SELECT cached_report FROM report_clients WHERE client_id = $1 AND cached_report IS NOT NULL`,
		clientID,
	).Scan(&cached)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.CachedReport{}, report.ErrNoCachedReport
		}
		return report.CachedReport{}, fmt.Errorf("failed to get cached report: %w", err)
	}

	return cached, nil
}

// SaveCachedReport implements report.ClientStore.
func (r *reportClientStore) SaveCachedReport(ctx context.Context, clientID string, cached report.CachedReport) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO report_clients (client_id, preferences, cached_report)
		VALUES ($1, '{}'::jsonb, $2)
		ON CONFLICT (client_id)
		DO UPDATE SET cached_report = $2, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, clientID, cached); err != nil {
		return fmt.Errorf("failed to save cached report: %w", err)
	}
	return nil
}

// ListAutoRefreshClients implements report.ClientStore.
func (r *reportClientStore) ListAutoRefreshClients(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT client_id FROM report_clients WHERE (preferences->>'auto_refresh')::bool IS TRUE`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-refresh clients: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan client id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read client ids: %w", err)
	}

	return ids, nil
}
