package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"aytoleon_scraper/internal/domain"
)

type SyncStateStore struct {
	db *sqlx.DB
}

func NewSyncStateStore(db *sqlx.DB) *SyncStateStore {
	return &SyncStateStore{db: db}
}

func (s *SyncStateStore) Get(ctx context.Context, ct domain.ContentType) (*domain.SyncState, error) {
	var state domain.SyncState
	query := `
		SELECT id, content_type, last_synced_at, last_run_id, total_saved
		FROM sync_state
		WHERE content_type = $1`

	err := s.db.GetContext(ctx, &state, query, ct)
	if errors.Is(err, sql.ErrNoRows) {
		// never synced
		return &domain.SyncState{ContentType: ct}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Update records a finished run. state.TotalSaved is the run's own count and
// is added to the stored total atomically.
func (s *SyncStateStore) Update(ctx context.Context, state *domain.SyncState) error {
	query := `
		INSERT INTO sync_state (content_type, last_synced_at, last_run_id, total_saved)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (content_type) DO UPDATE SET
			last_synced_at = EXCLUDED.last_synced_at,
			last_run_id = EXCLUDED.last_run_id,
			total_saved = sync_state.total_saved + EXCLUDED.total_saved`

	_, err := s.db.ExecContext(ctx, query,
		state.ContentType,
		state.LastSyncedAt,
		state.LastRunID,
		state.TotalSaved,
	)
	return err
}
