package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type syncSettingsRepository struct {
	db *database.DB
}

func NewSyncSettingsRepository(db *database.DB) remotesync.SettingsRepository {
	return &syncSettingsRepository{db: db}
}

// Get implements remotesync.SettingsRepository. The raw blob is stored as
// jsonb so the admin form round-trips exactly what was submitted.
func (r *syncSettingsRepository) Get(ctx context.Context, schoolCode string) (remotesync.RawSettings, error) {
	q := GetQuerier(ctx, r.db)

	var raw remotesync.RawSettings
	err := q.QueryRow(ctx,
		`SELECT settings FROM sync_settings WHERE school_code = $1`,
		schoolCode,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return remotesync.RawSettings{}, remotesync.ErrSettingsNotFound
		}
		return remotesync.RawSettings{}, fmt.Errorf("failed to get sync settings: %w", err)
	}

	return raw, nil
}

// Save implements remotesync.SettingsRepository.
func (r *syncSettingsRepository) Save(ctx context.Context, schoolCode string, raw remotesync.RawSettings) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sync_settings (school_code, settings)
		VALUES ($1, $2)
		ON CONFLICT (school_code)
		DO UPDATE SET settings = $2, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, schoolCode, raw); err != nil {
		return fmt.Errorf("failed to save sync settings: %w", err)
	}
	return nil
}
