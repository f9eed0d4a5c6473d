package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/outbox"
)

const entryColumns = "id, action_type, payload, status, attempts, max_attempts, last_attempted_at, created_at, external_id, error_message"

// timeLayout stores timestamps as RFC 3339 strings, matching the TEXT columns.
const timeLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new outbox store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanEntry(scan func(...any) error) (domain.Entry, error) {
	var entity domain.Entry
	var lastAttempted sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.ActionType,
		&entity.Payload,
		&entity.Status,
		&entity.Attempts,
		&entity.MaxAttempts,
		&lastAttempted,
		&createdAt,
		&entity.ExternalID,
		&entity.ErrorMessage,
	)
	if err != nil {
		return entity, err
	}
	if lastAttempted.Valid && lastAttempted.String != "" {
		if t, perr := time.Parse(timeLayout, lastAttempted.String); perr == nil {
			entity.LastAttemptedAt = t
		}
	}
	if t, perr := time.Parse(timeLayout, createdAt); perr == nil {
		entity.CreatedAt = t
	}
	return entity, nil
}

// GetByID retrieves an Entry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM outbox WHERE id = ?", id)
	entity, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Entry{}, fmt.Errorf("outbox entry not found: %w", err)
	}
	return entity, err
}

// Save persists an Entry to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Entry) error {
	var lastAttempted any
	if !entity.LastAttemptedAt.IsZero() {
		lastAttempted = entity.LastAttemptedAt.Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outbox (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			action_type=excluded.action_type, payload=excluded.payload,
			status=excluded.status, attempts=excluded.attempts,
			max_attempts=excluded.max_attempts, last_attempted_at=excluded.last_attempted_at,
			external_id=excluded.external_id, error_message=excluded.error_message`,
		entity.ID,
		entity.ActionType,
		entity.Payload,
		entity.Status,
		entity.Attempts,
		entity.MaxAttempts,
		lastAttempted,
		entity.CreatedAt.Format(timeLayout),
		entity.ExternalID,
		entity.ErrorMessage,
	)
	return err
}

// Delete removes an Entry from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM outbox WHERE id = ?", id)
	return err
}

// ListRetryable retrieves entries that can still be attempted, oldest first.
// PRE: limit > 0
// POST: every returned entry satisfies CanRetry
func (s *SQLiteStore) ListRetryable(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM outbox
		WHERE status IN (?, ?, ?) AND attempts < max_attempts
		ORDER BY created_at ASC LIMIT ?`,
		domain.StatusPending, domain.StatusRetrying, domain.StatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// List retrieves the newest entries for the admin view.
// PRE: limit > 0
// POST: Returns entries ordered DESC by creation time
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM outbox ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]domain.Entry, error) {
	var results []domain.Entry
	for rows.Next() {
		entity, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
