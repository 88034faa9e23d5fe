package storage

import (
	"context"
	"database/sql"
	"fmt"

	"kakeibo/internal/core"
)

// ListCategories returns a user's categories in display order.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, budget_cents, sort_order
		 FROM categories WHERE user_id = ? ORDER BY sort_order, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Budget.Cents, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ReplaceCategories swaps a user's full category set in one transaction,
// matching the replace-on-save semantics of the settings screens.
func (r *SQLiteRepository) ReplaceCategories(ctx context.Context, userID string, categories []core.Category) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("delete categories: %w", err)
		}
		for i, c := range categories {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO categories (user_id, name, budget_cents, sort_order) VALUES (?, ?, ?, ?)`,
				userID, c.Name, c.Budget.Cents, i)
			if err != nil {
				return fmt.Errorf("insert category %q: %w", c.Name, err)
			}
		}
		return nil
	})
}
