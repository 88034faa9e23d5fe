package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"kakeibo/internal/core"
)

var ErrNotFound = errors.New("row not found")

// GeneratedIncome pairs a materialized income row with the template that
// produced it, so the generation log can be written in the same transaction.
type GeneratedIncome struct {
	TemplateID int64
	Income     core.Income
}

// GeneratedExpense pairs a materialized expense row with its template.
type GeneratedExpense struct {
	TemplateID int64
	Expense    core.Expense
}

// InsertGeneratedIncomes bulk-inserts generator output for one calendar day.
// Each row is guarded by the generation log: a template already logged for
// entryDate is skipped, so re-running the job on the same day is a no-op.
// Returns the inserted row ids and the number of rows skipped by the guard.
func (r *SQLiteRepository) InsertGeneratedIncomes(ctx context.Context, entryDate string, rows []GeneratedIncome) (ids []int64, skipped int, err error) {
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		for _, g := range rows {
			logged, err := logGeneration(ctx, tx, "income", g.TemplateID, entryDate)
			if err != nil {
				return err
			}
			if !logged {
				skipped++
				continue
			}

			res, err := tx.ExecContext(ctx,
				`INSERT INTO income (user_id, amount_cents, income_day, memo) VALUES (?, ?, ?, ?)`,
				g.Income.UserID, g.Income.Amount.Cents, nullableText(g.Income.IncomeDay), g.Income.Memo)
			if err != nil {
				return fmt.Errorf("insert generated income: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("generated income id: %w", err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return ids, skipped, nil
}

// InsertGeneratedExpenses bulk-inserts generator output for one calendar day,
// with the same per-template re-run guard as InsertGeneratedIncomes.
func (r *SQLiteRepository) InsertGeneratedExpenses(ctx context.Context, entryDate string, rows []GeneratedExpense) (ids []int64, skipped int, err error) {
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		for _, g := range rows {
			logged, err := logGeneration(ctx, tx, "fixed_cost", g.TemplateID, entryDate)
			if err != nil {
				return err
			}
			if !logged {
				skipped++
				continue
			}

			res, err := tx.ExecContext(ctx,
				`INSERT INTO expenses (user_id, payment_date, memo, category, amount_cents) VALUES (?, ?, ?, ?, ?)`,
				g.Expense.UserID, g.Expense.PaymentDate, g.Expense.Memo, g.Expense.Category, g.Expense.Amount.Cents)
			if err != nil {
				return fmt.Errorf("insert generated expense: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("generated expense id: %w", err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return ids, skipped, nil
}

// logGeneration records one template occurrence. Returns false when the
// (source, template, date) tuple was already logged.
func logGeneration(ctx context.Context, tx *sql.Tx, source string, templateID int64, entryDate string) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO generation_log (source, template_id, entry_date) VALUES (?, ?, ?)`,
		source, templateID, entryDate)
	if err != nil {
		return false, fmt.Errorf("log generation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("log generation rows affected: %w", err)
	}
	return n > 0, nil
}

// CreateIncome inserts a user-entered income row and returns its id.
func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO income (user_id, amount_cents, income_day, memo) VALUES (?, ?, ?, ?)`,
		in.UserID, in.Amount.Cents, nullableText(in.IncomeDay), in.Memo)
	if err != nil {
		return 0, fmt.Errorf("create income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income id: %w", err)
	}

	slog.InfoContext(ctx, "income saved", "id", id, "amount_cents", in.Amount.Cents)
	return id, nil
}

// UpdateIncome rewrites a user's income row.
func (r *SQLiteRepository) UpdateIncome(ctx context.Context, in core.Income) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE income SET amount_cents = ?, income_day = ?, memo = ? WHERE id = ? AND user_id = ?`,
		in.Amount.Cents, nullableText(in.IncomeDay), in.Memo, in.ID, in.UserID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireRow(res)
}

// DeleteIncome removes a user's income row.
func (r *SQLiteRepository) DeleteIncome(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM income WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireRow(res)
}

// GetIncome loads one income row by id.
func (r *SQLiteRepository) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	var in core.Income
	var day sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount_cents, income_day, memo, created_at FROM income WHERE id = ?`, id).
		Scan(&in.ID, &in.UserID, &in.Amount.Cents, &day, &in.Memo, &in.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	in.IncomeDay = day.String
	return in, nil
}

// ListIncomesByRange returns a user's dated income rows within [first, last].
func (r *SQLiteRepository) ListIncomesByRange(ctx context.Context, userID, first, last string) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, income_day, memo, created_at
		 FROM income WHERE user_id = ? AND income_day >= ? AND income_day <= ?
		 ORDER BY income_day, id`, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		var in core.Income
		var day sql.NullString
		if err := rows.Scan(&in.ID, &in.UserID, &in.Amount.Cents, &day, &in.Memo, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		in.IncomeDay = day.String
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

// CreateExpense inserts a user-entered expense row and returns its id.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, payment_date, memo, category, amount_cents) VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.PaymentDate, e.Memo, e.Category, e.Amount.Cents)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "expense saved",
		"id", id,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"payment_date", e.PaymentDate)
	return id, nil
}

// UpdateExpense rewrites a user's expense row.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET payment_date = ?, memo = ?, category = ?, amount_cents = ? WHERE id = ? AND user_id = ?`,
		e.PaymentDate, e.Memo, e.Category, e.Amount.Cents, e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res)
}

// DeleteExpense removes a user's expense row.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res)
}

// GetExpense loads one expense row by id.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var e core.Expense
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, payment_date, memo, category, amount_cents, created_at FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.UserID, &e.PaymentDate, &e.Memo, &e.Category, &e.Amount.Cents, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpensesByRange returns a user's expenses within [first, last].
func (r *SQLiteRepository) ListExpensesByRange(ctx context.Context, userID, first, last string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, payment_date, memo, category, amount_cents, created_at
		 FROM expenses WHERE user_id = ? AND payment_date >= ? AND payment_date <= ?
		 ORDER BY payment_date, id`, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.PaymentDate, &e.Memo, &e.Category, &e.Amount.Cents, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// ListPendingSync returns ids of ledger rows not yet exported.
func (r *SQLiteRepository) ListPendingSync(ctx context.Context, table string, limit int) ([]int64, error) {
	if err := validateLedgerTable(table); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM `+table+` WHERE sync_status = ? ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkSynced marks a ledger row as exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, table string, id int64) error {
	return r.setSyncStatus(ctx, table, id, SyncDone)
}

// MarkSyncError marks a ledger row as failed to export.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, table string, id int64) error {
	return r.setSyncStatus(ctx, table, id, SyncError)
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, table string, id int64, status int) error {
	if err := validateLedgerTable(table); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE `+table+` SET sync_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set sync status: %w", err)
	}
	return requireRow(res)
}

// validateLedgerTable guards the identifier interpolated into sync queries.
func validateLedgerTable(table string) error {
	if table != TableIncome && table != TableExpenses {
		return fmt.Errorf("unknown ledger table %q", table)
	}
	return nil
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

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
