package weekly

import (
	"context"
	"database/sql"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/weekly"
)

const entryColumns = "id, day_of_week, start_time, end_time, member_id, member_name, status"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new weekly schedule store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanEntry(scan func(...any) error) (domain.Entry, error) {
	var entity domain.Entry
	err := scan(
		&entity.ID,
		&entity.DayOfWeek,
		&entity.StartTime,
		&entity.EndTime,
		&entity.MemberID,
		&entity.MemberName,
		&entity.Status,
	)
	return entity, err
}

// GetByID retrieves an Entry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM weekly_entry WHERE id = ?", id)
	entity, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Entry{}, fmt.Errorf("weekly entry not found: %w", err)
	}
	return entity, err
}

// Save persists an Entry to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weekly_entry (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			day_of_week=excluded.day_of_week, start_time=excluded.start_time,
			end_time=excluded.end_time, member_id=excluded.member_id,
			member_name=excluded.member_name, status=excluded.status`,
		entity.ID,
		entity.DayOfWeek,
		entity.StartTime,
		entity.EndTime,
		entity.MemberID,
		entity.MemberName,
		entity.Status,
	)
	return err
}

// Delete removes an Entry from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM weekly_entry WHERE id = ?", id)
	return err
}

// DeleteByMemberID removes all weekly entries for one member.
// POST: Returns the number of deleted rows
func (s *SQLiteStore) DeleteByMemberID(ctx context.Context, memberID string) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM weekly_entry WHERE member_id = ?", memberID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// List retrieves Entries matching the filter, ordered by weekday then time.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Entry, error) {
	query := "SELECT " + entryColumns + " FROM weekly_entry WHERE 1=1"
	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.MemberID != "" {
		query += " AND member_id = ?"
		args = append(args, filter.MemberID)
	}
	query += " ORDER BY day_of_week ASC, start_time ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
