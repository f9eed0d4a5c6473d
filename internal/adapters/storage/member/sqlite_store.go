package member

import (
	"context"
	"database/sql"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/member"
)

const memberColumns = "id, name, phone, total_sessions, used_sessions, unit_price, registration_date, birthday, forecast_status"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanMember(scan func(...any) error) (domain.Member, error) {
	var entity domain.Member
	var birthday sql.NullString
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Phone,
		&entity.TotalSessions,
		&entity.UsedSessions,
		&entity.UnitPrice,
		&entity.RegistrationDate,
		&birthday,
		&entity.ForecastStatus,
	)
	if birthday.Valid {
		entity.Birthday = birthday.String
	}
	return entity, err
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM member WHERE id = ?", id)
	entity, err := scanMember(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// FindByName retrieves a Member by exact name, case-insensitively. Used to
// resolve scanned attendance-sheet names against the registry.
// PRE: name is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) FindByName(ctx context.Context, name string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM member WHERE name = ? COLLATE NOCASE", name)
	entity, err := scanMember(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	var birthday any
	if entity.Birthday != "" {
		birthday = entity.Birthday
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO member (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, phone=excluded.phone,
			total_sessions=excluded.total_sessions, used_sessions=excluded.used_sessions,
			unit_price=excluded.unit_price, registration_date=excluded.registration_date,
			birthday=excluded.birthday, forecast_status=excluded.forecast_status`,
		entity.ID,
		entity.Name,
		entity.Phone,
		entity.TotalSessions,
		entity.UsedSessions,
		entity.UnitPrice,
		entity.RegistrationDate,
		birthday,
		entity.ForecastStatus,
	)
	return err
}

// Delete removes a Member. Dependent sales, sessions, and weekly entries
// cascade at the schema level.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	return err
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Search != "" {
		where += " AND (name LIKE ? OR phone LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term)
	}
	if filter.ForecastStatus != "" {
		where += " AND forecast_status = ?"
		args = append(args, filter.ForecastStatus)
	}
	return where, args
}

// Count returns the total number of members matching the filter.
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM member"+where, args...).Scan(&count)
	return count, err
}

// CountByDatePrefix returns how many members registered on the given date.
// Feeds the {entity}-{YYYYMMDD}-{sequence} ID convention.
func (s *SQLiteStore) CountByDatePrefix(ctx context.Context, registrationDate string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM member WHERE registration_date = ?", registrationDate).Scan(&count)
	return count, err
}

// List retrieves Members matching the filter, ordered by name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + memberColumns + " FROM member" + where + " ORDER BY name ASC"

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

	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
