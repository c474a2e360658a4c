// Package storage implements the persistent store the core engine builds
// records for: SQLite-backed category and expense CRUD plus the
// worker-maintained monthly rollup table.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"kakeibo/internal/core"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

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

// CreateCategory persists a new category and returns it with its assigned id.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.ID = uuid.New().String()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, party_a_ratio, party_b_ratio) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.ShareRatio.PartyA, c.ShareRatio.PartyB)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	slog.InfoContext(ctx, "category created", "id", c.ID, "name", c.Name)
	return c, nil
}

// ListCategories returns the current point-in-time category snapshot.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, party_a_ratio, party_b_ratio FROM categories ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ShareRatio.PartyA, &c.ShareRatio.PartyB); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory replaces the name and ratio of an existing category.
// Historic expense records keep their already-computed splits.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, id string, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, party_a_ratio = ?, party_b_ratio = ? WHERE id = ?`,
		c.Name, c.ShareRatio.PartyA, c.ShareRatio.PartyB, id)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

// CreateExpense persists a record built by the importer or manual entry and
// returns it with its assigned id.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = uuid.New().String()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, date, category_id, amount, memo, party_a_amount, party_b_amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Date, e.CategoryID, e.Amount, e.Memo, e.PartyAAmount, e.PartyBAmount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "expense created",
		"id", e.ID, "user_id", e.UserID, "date", e.Date, "amount", e.Amount)
	return e, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	var e core.Expense
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, category_id, amount, memo, party_a_amount, party_b_amount
		 FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.UserID, &e.Date, &e.CategoryID, &e.Amount, &e.Memo, &e.PartyAAmount, &e.PartyBAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// UpdateExpense replaces all mutable fields of an existing record.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id string, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET date = ?, category_id = ?, amount = ?, memo = ?,
		     party_a_amount = ?, party_b_amount = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		e.Date, e.CategoryID, e.Amount, e.Memo, e.PartyAAmount, e.PartyBAmount, id)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res)
}

// ListExpenses returns an owner's records newest first. from and to bound
// the date range inclusively when non-empty; the empty-date records sort
// last either way.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID, from, to string) ([]core.Expense, error) {
	query := `SELECT id, user_id, date, category_id, amount, memo, party_a_amount, party_b_amount
	          FROM expenses WHERE user_id = ?`
	args := []any{userID}
	if from != "" {
		query += ` AND date >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND date <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.CategoryID, &e.Amount, &e.Memo,
			&e.PartyAAmount, &e.PartyBAmount); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// ReplaceMonthlySummaries swaps an owner's rollup rows for a freshly
// computed set, atomically.
func (r *SQLiteRepository) ReplaceMonthlySummaries(ctx context.Context, userID string, totals []core.MonthlyTotal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rollup transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM monthly_summaries WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear rollups: %w", err)
	}
	for _, t := range totals {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO monthly_summaries (user_id, month, total, party_a_total, party_b_total, computed_at)
			 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
			userID, t.Month, t.Total, t.PartyATotal, t.PartyBTotal)
		if err != nil {
			return fmt.Errorf("insert rollup for %s: %w", t.Month, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rollups: %w", err)
	}

	slog.InfoContext(ctx, "monthly rollups replaced", "user_id", userID, "months", len(totals))
	return nil
}

// ListMonthlySummaries returns an owner's persisted rollups newest first.
// Trend deltas are not stored; they are recomputed from the totals when the
// live projection runs.
func (r *SQLiteRepository) ListMonthlySummaries(ctx context.Context, userID string) ([]core.MonthlyTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT month, total, party_a_total, party_b_total
		 FROM monthly_summaries WHERE user_id = ? ORDER BY month DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query rollups: %w", err)
	}
	defer rows.Close()

	var totals []core.MonthlyTotal
	for rows.Next() {
		var t core.MonthlyTotal
		if err := rows.Scan(&t.Month, &t.Total, &t.PartyATotal, &t.PartyBTotal); err != nil {
			return nil, fmt.Errorf("scan rollup: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// ListUserIDs returns the distinct owners that have recorded expenses.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM expenses ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
