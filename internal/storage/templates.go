package storage

import (
	"context"
	"database/sql"
	"fmt"

	"kakeibo/internal/core"
)

// ListIncomeTemplatesDue returns every user's income templates due on the
// given day. On the last day of a month (day == lastDay) templates whose
// nominal day overflows the month are due as well, so a day-31 rule still
// fires in February.
func (r *SQLiteRepository) ListIncomeTemplatesDue(ctx context.Context, day, lastDay int) ([]core.IncomeTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, day_of_month, memo
		 FROM income_config
		 WHERE day_of_month = ? OR (? = ? AND day_of_month > ?)
		 ORDER BY id`, day, day, lastDay, lastDay)
	if err != nil {
		return nil, fmt.Errorf("list due income templates: %w", err)
	}
	defer rows.Close()

	var templates []core.IncomeTemplate
	for rows.Next() {
		var t core.IncomeTemplate
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &t.DayOfMonth, &t.Memo); err != nil {
			return nil, fmt.Errorf("scan income template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// ListFixedCostTemplatesDue returns every user's fixed-cost templates due on
// the given day, with the same month-end overflow rule as
// ListIncomeTemplatesDue.
func (r *SQLiteRepository) ListFixedCostTemplatesDue(ctx context.Context, day, lastDay int) ([]core.FixedCostTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, memo, category, amount_cents, day_of_month
		 FROM fixed_costs_config
		 WHERE day_of_month = ? OR (? = ? AND day_of_month > ?)
		 ORDER BY id`, day, day, lastDay, lastDay)
	if err != nil {
		return nil, fmt.Errorf("list due fixed cost templates: %w", err)
	}
	defer rows.Close()

	var templates []core.FixedCostTemplate
	for rows.Next() {
		var t core.FixedCostTemplate
		if err := rows.Scan(&t.ID, &t.UserID, &t.Memo, &t.Category, &t.Amount.Cents, &t.DayOfMonth); err != nil {
			return nil, fmt.Errorf("scan fixed cost template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// ListIncomeTemplates returns one user's income templates for the settings screen.
func (r *SQLiteRepository) ListIncomeTemplates(ctx context.Context, userID string) ([]core.IncomeTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, day_of_month, memo
		 FROM income_config WHERE user_id = ? ORDER BY day_of_month, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list income templates: %w", err)
	}
	defer rows.Close()

	var templates []core.IncomeTemplate
	for rows.Next() {
		var t core.IncomeTemplate
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &t.DayOfMonth, &t.Memo); err != nil {
			return nil, fmt.Errorf("scan income template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// ListFixedCostTemplates returns one user's fixed-cost templates.
func (r *SQLiteRepository) ListFixedCostTemplates(ctx context.Context, userID string) ([]core.FixedCostTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, memo, category, amount_cents, day_of_month
		 FROM fixed_costs_config WHERE user_id = ? ORDER BY day_of_month, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list fixed cost templates: %w", err)
	}
	defer rows.Close()

	var templates []core.FixedCostTemplate
	for rows.Next() {
		var t core.FixedCostTemplate
		if err := rows.Scan(&t.ID, &t.UserID, &t.Memo, &t.Category, &t.Amount.Cents, &t.DayOfMonth); err != nil {
			return nil, fmt.Errorf("scan fixed cost template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// ReplaceIncomeTemplates swaps a user's full income template set in one
// transaction. The settings screens save with these replace semantics.
func (r *SQLiteRepository) ReplaceIncomeTemplates(ctx context.Context, userID string, templates []core.IncomeTemplate) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM income_config WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("delete income templates: %w", err)
		}
		for _, t := range templates {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO income_config (user_id, amount_cents, day_of_month, memo) VALUES (?, ?, ?, ?)`,
				userID, t.Amount.Cents, t.DayOfMonth, t.Memo)
			if err != nil {
				return fmt.Errorf("insert income template: %w", err)
			}
		}
		return nil
	})
}

// ReplaceFixedCostTemplates swaps a user's full fixed-cost template set in one
// transaction.
func (r *SQLiteRepository) ReplaceFixedCostTemplates(ctx context.Context, userID string, templates []core.FixedCostTemplate) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM fixed_costs_config WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("delete fixed cost templates: %w", err)
		}
		for _, t := range templates {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO fixed_costs_config (user_id, memo, category, amount_cents, day_of_month) VALUES (?, ?, ?, ?, ?)`,
				userID, t.Memo, t.Category, t.Amount.Cents, t.DayOfMonth)
			if err != nil {
				return fmt.Errorf("insert fixed cost template: %w", err)
			}
		}
		return nil
	})
}
