package services

import (
	"context"
	"testing"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/storage"
)

type fakeSummaryStore struct {
	income       int64
	expense      int64
	categorySums []storage.CategorySum
	categories   []core.Category

	monthlyIncome  map[int]int64
	monthlyExpense map[int]int64

	incomeCalls int
}

func (f *fakeSummaryStore) SumIncome(context.Context, string, string, string) (int64, error) {
	f.incomeCalls++
	return f.income, nil
}

func (f *fakeSummaryStore) SumExpenses(context.Context, string, string, string) (int64, error) {
	return f.expense, nil
}

func (f *fakeSummaryStore) SumExpensesByCategory(context.Context, string, string, string) ([]storage.CategorySum, error) {
	return f.categorySums, nil
}

func (f *fakeSummaryStore) ListCategories(context.Context, string) ([]core.Category, error) {
	return f.categories, nil
}

func (f *fakeSummaryStore) MonthlyIncomeTotals(context.Context, string, int) (map[int]int64, error) {
	return f.monthlyIncome, nil
}

func (f *fakeSummaryStore) MonthlyExpenseTotals(context.Context, string, int) (map[int]int64, error) {
	return f.monthlyExpense, nil
}

func TestMonthSummary_BudgetVsActual(t *testing.T) {
	store := &fakeSummaryStore{
		income:  300000,
		expense: 75000,
		categorySums: []storage.CategorySum{
			{Category: "HOUSE", TotalCents: 50000},
			{Category: "FOOD", TotalCents: 25000},
		},
		categories: []core.Category{
			{UserID: userU, Name: "FOOD", Budget: core.Money{Cents: 40000}},
			{UserID: userU, Name: "HOUSE", Budget: core.Money{Cents: 50000}},
			{UserID: userU, Name: "HOBBY", Budget: core.Money{Cents: 10000}},
		},
	}

	svc := NewSummaryService(store)
	got, err := svc.MonthSummary(context.Background(), userU, 2024, time.February)
	if err != nil {
		t.Fatalf("MonthSummary() error = %v", err)
	}

	if got.TotalIncome.Cents != 300000 || got.TotalExpense.Cents != 75000 {
		t.Errorf("totals = %+v", got)
	}
	if got.Balance.Cents != 225000 {
		t.Errorf("balance = %d, want 225000", got.Balance.Cents)
	}

	if len(got.ByCategory) != 3 {
		t.Fatalf("got %d category rows, want 3", len(got.ByCategory))
	}

	// Rows follow the user's configured order, not spending order.
	food := got.ByCategory[0]
	if food.Name != "FOOD" || food.Spent.Cents != 25000 || food.UsedPercent != "62.5" {
		t.Errorf("FOOD row = %+v, want 62.5%% of 40000", food)
	}
	house := got.ByCategory[1]
	if house.Name != "HOUSE" || house.UsedPercent != "100" {
		t.Errorf("HOUSE row = %+v, want 100%%", house)
	}
	hobby := got.ByCategory[2]
	if hobby.Spent.Cents != 0 || hobby.UsedPercent != "0" {
		t.Errorf("HOBBY row = %+v, want zero spending", hobby)
	}
}

func TestMonthSummary_UnconfiguredCategoryStillListed(t *testing.T) {
	store := &fakeSummaryStore{
		categorySums: []storage.CategorySum{
			{Category: "SURPRISE", TotalCents: 7000},
		},
		categories: []core.Category{
			{UserID: userU, Name: "FOOD", Budget: core.Money{Cents: 40000}},
		},
	}

	svc := NewSummaryService(store)
	got, err := svc.MonthSummary(context.Background(), userU, 2024, time.March)
	if err != nil {
		t.Fatalf("MonthSummary() error = %v", err)
	}

	if len(got.ByCategory) != 2 {
		t.Fatalf("got %d category rows, want 2", len(got.ByCategory))
	}
	surprise := got.ByCategory[1]
	if surprise.Name != "SURPRISE" || surprise.Spent.Cents != 7000 {
		t.Errorf("unconfigured category row = %+v", surprise)
	}
	// No budget, so no percentage to report.
	if surprise.UsedPercent != "" {
		t.Errorf("UsedPercent = %q, want empty without a budget", surprise.UsedPercent)
	}
}

func TestUsedPercent(t *testing.T) {
	tests := []struct {
		name   string
		spent  int64
		budget int64
		want   string
	}{
		{name: "no budget", spent: 100, budget: 0, want: ""},
		{name: "exact", spent: 50000, budget: 50000, want: "100"},
		{name: "third rounds to one digit", spent: 10000, budget: 30000, want: "33.3"},
		{name: "over budget", spent: 60000, budget: 50000, want: "120"},
		{name: "nothing spent", spent: 0, budget: 10000, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usedPercent(tt.spent, tt.budget); got != tt.want {
				t.Errorf("usedPercent(%d, %d) = %q, want %q", tt.spent, tt.budget, got, tt.want)
			}
		})
	}
}

func TestYearSummary(t *testing.T) {
	store := &fakeSummaryStore{
		monthlyIncome:  map[int]int64{1: 300000, 12: 350000},
		monthlyExpense: map[int]int64{1: 120000},
	}

	svc := NewSummaryService(store)
	got, err := svc.YearSummary(context.Background(), userU, 2024)
	if err != nil {
		t.Fatalf("YearSummary() error = %v", err)
	}

	if len(got.Months) != 12 {
		t.Fatalf("got %d months, want 12", len(got.Months))
	}
	if got.Months[0].Income.Cents != 300000 || got.Months[0].Expense.Cents != 120000 {
		t.Errorf("january = %+v", got.Months[0])
	}
	if got.Months[11].Income.Cents != 350000 {
		t.Errorf("december = %+v", got.Months[11])
	}
	// Months without rows are present with zero totals.
	if got.Months[5].Month != 6 || got.Months[5].Income.Cents != 0 {
		t.Errorf("june = %+v, want zeroes", got.Months[5])
	}
}

func TestMonthSummary_CachesRepeatReads(t *testing.T) {
	store := &fakeSummaryStore{income: 100}
	svc := NewSummaryService(store)

	if _, err := svc.MonthSummary(context.Background(), userU, 2024, time.April); err != nil {
		t.Fatalf("first read: %v", err)
	}
	got, err := svc.MonthSummary(context.Background(), userU, 2024, time.April)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if store.incomeCalls != 1 {
		t.Fatalf("store queried %d times, want 1", store.incomeCalls)
	}
	if got.TotalIncome.Cents != 100 {
		t.Fatalf("cached income = %d, want 100", got.TotalIncome.Cents)
	}

	// A different month misses the cache.
	if _, err := svc.MonthSummary(context.Background(), userU, 2024, time.May); err != nil {
		t.Fatalf("other month: %v", err)
	}
	if store.incomeCalls != 2 {
		t.Fatalf("store queried %d times, want 2", store.incomeCalls)
	}
}
