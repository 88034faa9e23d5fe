package storage

import (
	"context"
	"fmt"
	"strconv"
)

// CategorySum is the spent total for one category within a date range.
type CategorySum struct {
	Category   string
	TotalCents int64
}

// SumIncome totals a user's dated income rows within [first, last]. Rows
// without a full calendar date (initial balances, legacy day-number rows)
// fall outside any range and are not counted.
func (r *SQLiteRepository) SumIncome(ctx context.Context, userID, first, last string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM income
		 WHERE user_id = ? AND income_day >= ? AND income_day <= ?`,
		userID, first, last).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum income: %w", err)
	}
	return total, nil
}

// SumExpenses totals a user's expenses within [first, last].
func (r *SQLiteRepository) SumExpenses(ctx context.Context, userID, first, last string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
		 WHERE user_id = ? AND payment_date >= ? AND payment_date <= ?`,
		userID, first, last).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}

// SumExpensesByCategory groups a user's spending within [first, last] by
// category, largest first.
func (r *SQLiteRepository) SumExpensesByCategory(ctx context.Context, userID, first, last string) ([]CategorySum, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents) FROM expenses
		 WHERE user_id = ? AND payment_date >= ? AND payment_date <= ?
		 GROUP BY category ORDER BY SUM(amount_cents) DESC`,
		userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}
	defer rows.Close()

	var sums []CategorySum
	for rows.Next() {
		var s CategorySum
		if err := rows.Scan(&s.Category, &s.TotalCents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

// MonthlyExpenseTotals returns expense totals per month (1-12) for a year.
func (r *SQLiteRepository) MonthlyExpenseTotals(ctx context.Context, userID string, year int) (map[int]int64, error) {
	return r.monthlyTotals(ctx, `SELECT substr(payment_date, 6, 2), SUM(amount_cents) FROM expenses
		 WHERE user_id = ? AND payment_date >= ? AND payment_date <= ? GROUP BY 1`,
		userID, year)
}

// MonthlyIncomeTotals returns dated income totals per month (1-12) for a year.
func (r *SQLiteRepository) MonthlyIncomeTotals(ctx context.Context, userID string, year int) (map[int]int64, error) {
	return r.monthlyTotals(ctx, `SELECT substr(income_day, 6, 2), SUM(amount_cents) FROM income
		 WHERE user_id = ? AND income_day >= ? AND income_day <= ? GROUP BY 1`,
		userID, year)
}

func (r *SQLiteRepository) monthlyTotals(ctx context.Context, query, userID string, year int) (map[int]int64, error) {
	first := fmt.Sprintf("%04d-01-01", year)
	last := fmt.Sprintf("%04d-12-31", year)

	rows, err := r.db.QueryContext(ctx, query, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[int]int64)
	for rows.Next() {
		var monthStr string
		var total int64
		if err := rows.Scan(&monthStr, &total); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			return nil, fmt.Errorf("unexpected month key %q", monthStr)
		}
		totals[month] = total
	}
	return totals, rows.Err()
}
