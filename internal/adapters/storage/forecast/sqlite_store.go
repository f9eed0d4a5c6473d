package forecast

import (
	"context"
	"database/sql"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/forecast"
)

const entryColumns = "id, forecast_date, member_name, class_count, unit_price, amount"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new forecast entry store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanEntry(scan func(...any) error) (domain.Entry, error) {
	var entity domain.Entry
	err := scan(
		&entity.ID,
		&entity.ForecastDate,
		&entity.MemberName,
		&entity.ClassCount,
		&entity.UnitPrice,
		&entity.Amount,
	)
	return entity, err
}

// GetByID retrieves an Entry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM forecast_entry WHERE id = ?", id)
	entity, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Entry{}, fmt.Errorf("forecast entry not found: %w", err)
	}
	return entity, err
}

// Save persists an Entry to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO forecast_entry (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			forecast_date=excluded.forecast_date, member_name=excluded.member_name,
			class_count=excluded.class_count, unit_price=excluded.unit_price,
			amount=excluded.amount`,
		entity.ID,
		entity.ForecastDate,
		entity.MemberName,
		entity.ClassCount,
		entity.UnitPrice,
		entity.Amount,
	)
	return err
}

// Delete removes an Entry from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM forecast_entry WHERE id = ?", id)
	return err
}

// CountByDatePrefix returns how many forecast entries exist on the given date.
// Feeds the {entity}-{YYYYMMDD}-{sequence} ID convention.
func (s *SQLiteStore) CountByDatePrefix(ctx context.Context, forecastDate string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM forecast_entry WHERE forecast_date = ?", forecastDate).Scan(&count)
	return count, err
}

// List retrieves Entries matching the filter, ordered by forecast date.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Entry, error) {
	query := "SELECT " + entryColumns + " FROM forecast_entry WHERE 1=1"
	var args []any

	if filter.FromDate != "" {
		query += " AND forecast_date >= ?"
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		query += " AND forecast_date <= ?"
		args = append(args, filter.ToDate)
	}
	query += " ORDER BY forecast_date ASC, id ASC"

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
