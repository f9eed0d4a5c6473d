package calendar

import (
	"context"
	"database/sql"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/calendar"
)

const eventColumns = "id, date, type, title, start_time, end_time, member_id, recurrence_id, status"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new calendar event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanEvent(scan func(...any) error) (domain.Event, error) {
	var entity domain.Event
	err := scan(
		&entity.ID,
		&entity.Date,
		&entity.Type,
		&entity.Title,
		&entity.StartTime,
		&entity.EndTime,
		&entity.MemberID,
		&entity.RecurrenceID,
		&entity.Status,
	)
	return entity, err
}

// GetByID retrieves an Event by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM calendar_event WHERE id = ?", id)
	entity, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Event{}, fmt.Errorf("calendar event not found: %w", err)
	}
	return entity, err
}

// Save persists an Event to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_event (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date=excluded.date, type=excluded.type, title=excluded.title,
			start_time=excluded.start_time, end_time=excluded.end_time,
			member_id=excluded.member_id, recurrence_id=excluded.recurrence_id,
			status=excluded.status`,
		entity.ID,
		entity.Date,
		entity.Type,
		entity.Title,
		entity.StartTime,
		entity.EndTime,
		entity.MemberID,
		entity.RecurrenceID,
		entity.Status,
	)
	return err
}

// Delete removes an Event from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM calendar_event WHERE id = ?", id)
	return err
}

// CountByDatePrefix returns how many events exist on the given date.
// Feeds the {entity}-{YYYYMMDD}-{sequence} ID convention.
func (s *SQLiteStore) CountByDatePrefix(ctx context.Context, date string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendar_event WHERE date = ?", date).Scan(&count)
	return count, err
}

// ListByRecurrenceID retrieves every occurrence of one recurring series,
// ordered by date ascending for "this and future" cuts.
// PRE: recurrenceID is non-empty
// POST: Returns the series occurrences, oldest first
func (s *SQLiteStore) ListByRecurrenceID(ctx context.Context, recurrenceID string) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM calendar_event WHERE recurrence_id = ? ORDER BY date ASC, start_time ASC", recurrenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// List retrieves Events matching the filter, ordered by date then start time.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM calendar_event WHERE 1=1"
	var args []any

	if filter.FromDate != "" {
		query += " AND date >= ?"
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		query += " AND date <= ?"
		args = append(args, filter.ToDate)
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if filter.MemberID != "" {
		query += " AND member_id = ?"
		args = append(args, filter.MemberID)
	}
	query += " ORDER BY date ASC, start_time ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 5000
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

func collect(rows *sql.Rows) ([]domain.Event, error) {
	var results []domain.Event
	for rows.Next() {
		entity, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
