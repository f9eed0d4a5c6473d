package session

import (
	"context"
	"database/sql"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/session"
)

const sessionColumns = "id, session_date, member_id, member_name, class_count, unit_price, completion_source_id"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanSession(scan func(...any) error) (domain.Session, error) {
	var entity domain.Session
	err := scan(
		&entity.ID,
		&entity.SessionDate,
		&entity.MemberID,
		&entity.MemberName,
		&entity.ClassCount,
		&entity.UnitPrice,
		&entity.CompletionSourceID,
	)
	return entity, err
}

// GetByID retrieves a Session by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM session WHERE id = ?", id)
	entity, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Session{}, fmt.Errorf("session not found: %w", err)
	}
	return entity, err
}

// GetByCompletionSource retrieves the session spawned by completing the given
// calendar event. The reverse lookup used when a completion is undone.
// PRE: eventID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByCompletionSource(ctx context.Context, eventID string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM session WHERE completion_source_id = ?", eventID)
	entity, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Session{}, fmt.Errorf("session not found for event %s: %w", eventID, err)
	}
	return entity, err
}

// Save persists a Session to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_date=excluded.session_date, member_id=excluded.member_id,
			member_name=excluded.member_name, class_count=excluded.class_count,
			unit_price=excluded.unit_price, completion_source_id=excluded.completion_source_id`,
		entity.ID,
		entity.SessionDate,
		entity.MemberID,
		entity.MemberName,
		entity.ClassCount,
		entity.UnitPrice,
		entity.CompletionSourceID,
	)
	return err
}

// Delete removes a Session from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE id = ?", id)
	return err
}

// DeleteByMemberID removes all sessions for one member.
// POST: Returns the number of deleted rows
func (s *SQLiteStore) DeleteByMemberID(ctx context.Context, memberID string) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE member_id = ?", memberID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CountByDatePrefix returns how many sessions exist on the given date.
// Feeds the {entity}-{YYYYMMDD}-{sequence} ID convention.
func (s *SQLiteStore) CountByDatePrefix(ctx context.Context, sessionDate string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM session WHERE session_date = ?", sessionDate).Scan(&count)
	return count, err
}

// ListByMemberID retrieves one member's consumption history, newest first.
// PRE: memberID is non-empty
// POST: Returns the member's sessions ordered DESC by session date
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM session WHERE member_id = ? ORDER BY session_date DESC, id DESC", memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// List retrieves Sessions matching the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Session, error) {
	query := "SELECT " + sessionColumns + " FROM session WHERE 1=1"
	var args []any

	if filter.FromDate != "" {
		query += " AND session_date >= ?"
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		query += " AND session_date <= ?"
		args = append(args, filter.ToDate)
	}
	query += " ORDER BY session_date DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]domain.Session, error) {
	var results []domain.Session
	for rows.Next() {
		entity, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
