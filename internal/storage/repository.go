package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"txboard/internal/core"
	applog "txboard/internal/log"
	"txboard/internal/query"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const selectColumns = "id, title, description, price_cents, category, date_of_sale"

// SQLiteRepository is the SQLite-backed transaction store. It implements query.Store.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Insert stores all transactions in a single database transaction.
func (r *SQLiteRepository) Insert(ctx context.Context, txs []core.Transaction) (int, error) {
	for i, t := range txs {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("transaction %d (%q): %w", i, t.Title, err)
		}
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (title, description, price_cents, price_text, category, date_of_sale)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range txs {
		_, err := stmt.ExecContext(ctx,
			t.Title,
			t.Description,
			core.PriceToCents(t.Price),
			core.PriceText(t.Price),
			t.Category,
			t.DateOfSale.String())
		if err != nil {
			return 0, fmt.Errorf("insert transaction %d (%q): %w", i, t.Title, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).
		InfoContext(ctx, "Transactions saved to SQLite", applog.FieldOperation, applog.OpInsert, applog.FieldCount, len(txs))
	return len(txs), nil
}

func (r *SQLiteRepository) Query(ctx context.Context, p query.Predicate, page query.Page) ([]core.Transaction, error) {
	if page.Overflows() {
		return []core.Transaction{}, nil
	}
	where, args := p.SQL()
	stmt := "SELECT " + selectColumns + " FROM transactions WHERE " + where + " ORDER BY id"
	if page.Limited() {
		stmt += " LIMIT ? OFFSET ?"
		args = append(args, page.Size, page.Offset())
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		var (
			t     core.Transaction
			cents int64
			date  string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &cents, &t.Category, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Price = core.PriceFromCents(cents)
		if t.DateOfSale, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse date_of_sale %q (id=%d): %w", date, t.ID, err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *SQLiteRepository) Count(ctx context.Context, p query.Predicate) (int64, error) {
	where, args := p.SQL()
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions WHERE "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) SumPrice(ctx context.Context, p query.Predicate) (decimal.Decimal, error) {
	where, args := p.SQL()
	var cents int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(price_cents), 0) FROM transactions WHERE "+where, args...).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum price: %w", err)
	}
	return core.PriceFromCents(cents), nil
}

func (r *SQLiteRepository) GroupCount(ctx context.Context, p query.Predicate) ([]core.CategoryCount, error) {
	where, args := p.SQL()
	rows, err := r.db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM transactions WHERE "+where+" GROUP BY category ORDER BY category", args...)
	if err != nil {
		return nil, fmt.Errorf("group by category: %w", err)
	}
	defer rows.Close()

	counts := []core.CategoryCount{}
	for rows.Next() {
		var c core.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	return counts, nil
}
