package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/him1art1-dotcom/had-sub003/internal/domain/remotesync"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type syncStateRepository struct {
	db *database.DB
}

func NewSyncStateRepository(db *database.DB) remotesync.StateRepository {
	return &syncStateRepository{db: db}
}

// Get implements remotesync.StateRepository. A school that never synced
// gets the zero state, not an error.
func (r *syncStateRepository) Get(ctx context.Context, schoolCode string) (remotesync.SyncState, error) {
	q := GetQuerier(ctx, r.db)

	var state remotesync.SyncState
	err := q.QueryRow(ctx,
		`SELECT state FROM sync_state WHERE school_code = $1`,
		schoolCode,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return remotesync.SyncState{}, nil
		}
		return remotesync.SyncState{}, fmt.Errorf("failed to get sync state: %w", err)
	}

	return state, nil
}

// Save implements remotesync.StateRepository. Last write wins; the manager
// is the single intended writer so no row locking is taken.
func (r *syncStateRepository) Save(ctx context.Context, schoolCode string, state remotesync.SyncState) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sync_state (school_code, state)
		VALUES ($1, $2)
		ON CONFLICT (school_code)
		DO UPDATE SET state = $2, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, schoolCode, state); err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}
