package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/classcover/classcover-api/internal/models"
)

// PostgresStore keeps each named record as a JSONB row, for
// deployments that prefer a shared database over per-device files.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const upsertRecord = `INSERT INTO snapshots (name, body, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`

// Save upserts both records.
func (s *PostgresStore) Save(ctx context.Context, snap models.Snapshot) error {
	teachers, err := json.Marshal(snap.Teachers)
	if err != nil {
		return fmt.Errorf("marshal teachers: %w", err)
	}
	logs, err := json.Marshal(snap.Logs)
	if err != nil {
		return fmt.Errorf("marshal sublog: %w", err)
	}

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, upsertRecord, models.RecordTeachers, teachers, now); err != nil {
		return fmt.Errorf("save teachers record: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, upsertRecord, models.RecordSubLog, logs, now); err != nil {
		return fmt.Errorf("save sublog record: %w", err)
	}
	return nil
}

// Load reads both records; no roster row means no saved state.
func (s *PostgresStore) Load(ctx context.Context) (models.Snapshot, bool, error) {
	var snap models.Snapshot

	var teachers []byte
	err := s.db.GetContext(ctx, &teachers, `SELECT body FROM snapshots WHERE name = $1`, models.RecordTeachers)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Snapshot{}, false, nil
		}
		return models.Snapshot{}, false, fmt.Errorf("load teachers record: %w", err)
	}
	if err := json.Unmarshal(teachers, &snap.Teachers); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("decode teachers: %w", err)
	}

	var logs []byte
	err = s.db.GetContext(ctx, &logs, `SELECT body FROM snapshots WHERE name = $1`, models.RecordSubLog)
	if err != nil {
		if err != sql.ErrNoRows {
			return models.Snapshot{}, false, fmt.Errorf("load sublog record: %w", err)
		}
	} else if err := json.Unmarshal(logs, &snap.Logs); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("decode sublog: %w", err)
	}

	return snap, true, nil
}
