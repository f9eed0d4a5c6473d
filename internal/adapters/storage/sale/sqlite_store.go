package sale

import (
	"context"
	"database/sql"
	"fmt"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/sale"
)

const saleColumns = "id, sale_date, member_id, member_name, class_count, unit_price, amount, paid_amount"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new sale store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanSale(scan func(...any) error) (domain.Sale, error) {
	var entity domain.Sale
	err := scan(
		&entity.ID,
		&entity.SaleDate,
		&entity.MemberID,
		&entity.MemberName,
		&entity.ClassCount,
		&entity.UnitPrice,
		&entity.Amount,
		&entity.PaidAmount,
	)
	return entity, err
}

// GetByID retrieves a Sale by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Sale, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+saleColumns+" FROM sale WHERE id = ?", id)
	entity, err := scanSale(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Sale{}, fmt.Errorf("sale not found: %w", err)
	}
	return entity, err
}

// Save persists a Sale to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Sale) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sale (`+saleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sale_date=excluded.sale_date, member_id=excluded.member_id,
			member_name=excluded.member_name, class_count=excluded.class_count,
			unit_price=excluded.unit_price, amount=excluded.amount,
			paid_amount=excluded.paid_amount`,
		entity.ID,
		entity.SaleDate,
		entity.MemberID,
		entity.MemberName,
		entity.ClassCount,
		entity.UnitPrice,
		entity.Amount,
		entity.PaidAmount,
	)
	return err
}

// Delete removes a Sale from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sale WHERE id = ?", id)
	return err
}

// DeleteByMemberID removes all sales for one member.
// POST: Returns the number of deleted rows
func (s *SQLiteStore) DeleteByMemberID(ctx context.Context, memberID string) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sale WHERE member_id = ?", memberID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CountByDatePrefix returns how many sales exist on the given date.
// Feeds the {entity}-{YYYYMMDD}-{sequence} ID convention.
func (s *SQLiteStore) CountByDatePrefix(ctx context.Context, saleDate string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sale WHERE sale_date = ?", saleDate).Scan(&count)
	return count, err
}

// ListByMemberID retrieves one member's purchase history ordered by sale date
// ascending, the order the allocation engine consumes it in.
// PRE: memberID is non-empty
// POST: Returns the member's sales, oldest first
func (s *SQLiteStore) ListByMemberID(ctx context.Context, memberID string) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+saleColumns+" FROM sale WHERE member_id = ? ORDER BY sale_date ASC, id ASC", memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// List retrieves Sales matching the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Sale, error) {
	query := "SELECT " + saleColumns + " FROM sale WHERE 1=1"
	var args []any

	if filter.FromDate != "" {
		query += " AND sale_date >= ?"
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		query += " AND sale_date <= ?"
		args = append(args, filter.ToDate)
	}
	query += " ORDER BY sale_date DESC, id DESC"

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

func collect(rows *sql.Rows) ([]domain.Sale, error) {
	var results []domain.Sale
	for rows.Next() {
		entity, err := scanSale(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
