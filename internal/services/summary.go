package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"kakeibo/internal/cache"
	"kakeibo/internal/core"
	"kakeibo/internal/storage"
)

// SummaryStore is the storage surface the summary service reads from.
type SummaryStore interface {
	SumIncome(ctx context.Context, userID, first, last string) (int64, error)
	SumExpenses(ctx context.Context, userID, first, last string) (int64, error)
	SumExpensesByCategory(ctx context.Context, userID, first, last string) ([]storage.CategorySum, error)
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
	MonthlyIncomeTotals(ctx context.Context, userID string, year int) (map[int]int64, error)
	MonthlyExpenseTotals(ctx context.Context, userID string, year int) (map[int]int64, error)
}

// Month views get polled by dashboards; a short TTL keeps reads cheap while
// bounding staleness after a ledger write.
const (
	monthCacheSize = 256
	monthCacheTTL  = 30 * time.Second
)

// SummaryService aggregates ledger rows into period views with
// budget-vs-actual comparisons.
type SummaryService struct {
	store  SummaryStore
	months *cache.LRU[core.MonthSummary]
}

func NewSummaryService(store SummaryStore) *SummaryService {
	return &SummaryService{
		store:  store,
		months: cache.NewLRU[core.MonthSummary](monthCacheSize, monthCacheTTL),
	}
}

var oneHundred = decimal.NewFromInt(100)

// MonthSummary builds the aggregated view for one year+month: income and
// expense totals plus per-category actuals against configured budgets.
func (s *SummaryService) MonthSummary(ctx context.Context, userID string, year int, month time.Month) (core.MonthSummary, error) {
	key := fmt.Sprintf("%s|%04d-%02d", userID, year, month)
	if cached, ok := s.months.Get(key); ok {
		return cached, nil
	}

	first, last := core.MonthBounds(year, month)

	summary := core.MonthSummary{Year: year, Month: int(month)}

	income, err := s.store.SumIncome(ctx, userID, first, last)
	if err != nil {
		return summary, fmt.Errorf("month income total: %w", err)
	}
	expense, err := s.store.SumExpenses(ctx, userID, first, last)
	if err != nil {
		return summary, fmt.Errorf("month expense total: %w", err)
	}
	summary.TotalIncome = core.Money{Cents: income}
	summary.TotalExpense = core.Money{Cents: expense}
	summary.Balance = core.Money{Cents: income - expense}

	spent, err := s.store.SumExpensesByCategory(ctx, userID, first, last)
	if err != nil {
		return summary, fmt.Errorf("month category sums: %w", err)
	}
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("list categories: %w", err)
	}

	summary.ByCategory = buildCategoryActuals(categories, spent)
	s.months.Set(key, summary)
	return summary, nil
}

// buildCategoryActuals merges the user's configured categories (in display
// order) with what was actually spent. Spending in a category the user never
// configured still shows up, appended after the configured ones.
func buildCategoryActuals(categories []core.Category, spent []storage.CategorySum) []core.CategoryActual {
	spentByName := make(map[string]int64, len(spent))
	for _, s := range spent {
		spentByName[s.Category] = s.TotalCents
	}

	actuals := make([]core.CategoryActual, 0, len(categories))
	for _, c := range categories {
		actuals = append(actuals, core.CategoryActual{
			Name:        c.Name,
			Budget:      c.Budget,
			Spent:       core.Money{Cents: spentByName[c.Name]},
			UsedPercent: usedPercent(spentByName[c.Name], c.Budget.Cents),
		})
		delete(spentByName, c.Name)
	}

	for _, s := range spent {
		if _, unclaimed := spentByName[s.Category]; !unclaimed {
			continue
		}
		actuals = append(actuals, core.CategoryActual{
			Name:  s.Category,
			Spent: core.Money{Cents: s.TotalCents},
		})
	}

	return actuals
}

// usedPercent renders spent/budget as a percentage with one fractional
// digit. Decimal arithmetic avoids float drift on the division. Empty when
// there is no budget to compare against.
func usedPercent(spentCents, budgetCents int64) string {
	if budgetCents <= 0 {
		return ""
	}
	return decimal.NewFromInt(spentCents).
		Mul(oneHundred).
		Div(decimal.NewFromInt(budgetCents)).
		Round(1).
		String()
}

// YearSummary builds per-month income/expense totals for a calendar year.
func (s *SummaryService) YearSummary(ctx context.Context, userID string, year int) (core.YearSummary, error) {
	summary := core.YearSummary{Year: year}

	incomes, err := s.store.MonthlyIncomeTotals(ctx, userID, year)
	if err != nil {
		return summary, fmt.Errorf("yearly income totals: %w", err)
	}
	expenses, err := s.store.MonthlyExpenseTotals(ctx, userID, year)
	if err != nil {
		return summary, fmt.Errorf("yearly expense totals: %w", err)
	}

	summary.Months = make([]core.MonthTotal, 12)
	for m := 1; m <= 12; m++ {
		summary.Months[m-1] = core.MonthTotal{
			Month:   m,
			Income:  core.Money{Cents: incomes[m]},
			Expense: core.Money{Cents: expenses[m]},
		}
	}
	return summary, nil
}
