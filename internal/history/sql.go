package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/R3E-Network/lotto_picker/internal/lottery"
)

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not map by default.
	sqlx.BindDriver(string(DriverSQLite), sqlx.QUESTION)
}

// SQLStore reads and writes draws in the lottery_draws table. It works with
// any driver sqlx knows the bind style for; postgres and sqlite are wired.
type SQLStore struct {
	db *sqlx.DB
}

var (
	_ Store  = (*SQLStore)(nil)
	_ Writer = (*SQLStore)(nil)
)

// NewSQLStore wraps an open handle. driverName selects the placeholder style.
func NewSQLStore(db *sql.DB, driverName string) *SQLStore {
	return &SQLStore{db: sqlx.NewDb(db, driverName)}
}

// Open opens dsn with driverName and verifies the connection.
func Open(ctx context.Context, driverName, dsn string) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driverName, err)
	}
	return &SQLStore{db: db}, nil
}

// DB exposes the underlying handle for schema management.
func (s *SQLStore) DB() *sql.DB {
	return s.db.DB
}

// Close releases the handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type drawRow struct {
	DrawNo int64 `db:"draw_no"`
	N1     int   `db:"n1"`
	N2     int   `db:"n2"`
	N3     int   `db:"n3"`
	N4     int   `db:"n4"`
	N5     int   `db:"n5"`
	N6     int   `db:"n6"`
}

func (s *SQLStore) LoadDraws(ctx context.Context, variant lottery.Variant) ([]lottery.Draw, error) {
	var rows []drawRow
	query := s.db.Rebind(`
		SELECT draw_no, n1, n2, n3, n4, n5, n6
		FROM lottery_draws
		WHERE variant = ?
		ORDER BY draw_no`)
	if err := s.db.SelectContext(ctx, &rows, query, string(variant.ID)); err != nil {
		return nil, fmt.Errorf("select draws: %w", err)
	}

	numbers := make([][]int, len(rows))
	for i, r := range rows {
		numbers[i] = []int{r.N1, r.N2, r.N3, r.N4, r.N5, r.N6}
	}
	return validateRows(variant, numbers)
}

// SaveDraws upserts records keyed by (variant, draw_no) in one transaction.
func (s *SQLStore) SaveDraws(ctx context.Context, variant lottery.Variant, records []Record) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
		INSERT INTO lottery_draws (variant, draw_no, drawn_at, n1, n2, n3, n4, n5, n6)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (variant, draw_no) DO UPDATE SET
			drawn_at = excluded.drawn_at,
			n1 = excluded.n1, n2 = excluded.n2, n3 = excluded.n3,
			n4 = excluded.n4, n5 = excluded.n5, n6 = excluded.n6`))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var drawnAt sql.NullTime
		if rec.DrawnAt != nil {
			drawnAt = sql.NullTime{Time: *rec.DrawnAt, Valid: true}
		}
		n := rec.Numbers
		if _, err := stmt.ExecContext(ctx, string(variant.ID), rec.DrawNo, drawnAt,
			n[0], n[1], n[2], n[3], n[4], n[5]); err != nil {
			return 0, fmt.Errorf("insert draw %d: %w", rec.DrawNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}
