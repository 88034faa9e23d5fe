package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"kakeibo/internal/core"
)

// Summarizer computes period aggregates over the ledger.
type Summarizer interface {
	MonthSummary(ctx context.Context, userID string, year int, month time.Month) (core.MonthSummary, error)
	YearSummary(ctx context.Context, userID string, year int) (core.YearSummary, error)
}

type SummaryHandler struct {
	summaries Summarizer
}

func NewSummaryHandler(summaries Summarizer) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

type CategoryActualResponse struct {
	Name        string `json:"name"`
	BudgetCents int64  `json:"budget_cents"`
	SpentCents  int64  `json:"spent_cents"`
	UsedPercent string `json:"used_percent,omitempty"`
}

type MonthSummaryResponse struct {
	Year              int                      `json:"year"`
	Month             int                      `json:"month"`
	TotalIncomeCents  int64                    `json:"total_income_cents"`
	TotalExpenseCents int64                    `json:"total_expense_cents"`
	BalanceCents      int64                    `json:"balance_cents"`
	ByCategory        []CategoryActualResponse `json:"by_category"`
}

type MonthTotalResponse struct {
	Month        int   `json:"month"`
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
}

type YearSummaryResponse struct {
	Year   int                  `json:"year"`
	Months []MonthTotalResponse `json:"months"`
}

// Month returns totals and budget-vs-actual per category for one month.
func (h *SummaryHandler) Month(c echo.Context) error {
	year, month, err := yearMonthParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	summary, err := h.summaries.MonthSummary(c.Request().Context(), userID(c), year, month)
	if err != nil {
		return serverError(c)
	}

	byCategory := make([]CategoryActualResponse, 0, len(summary.ByCategory))
	for _, actual := range summary.ByCategory {
		byCategory = append(byCategory, CategoryActualResponse{
			Name:        actual.Name,
			BudgetCents: actual.Budget.Cents,
			SpentCents:  actual.Spent.Cents,
			UsedPercent: actual.UsedPercent,
		})
	}

	return c.JSON(http.StatusOK, MonthSummaryResponse{
		Year:              summary.Year,
		Month:             summary.Month,
		TotalIncomeCents:  summary.TotalIncome.Cents,
		TotalExpenseCents: summary.TotalExpense.Cents,
		BalanceCents:      summary.Balance.Cents,
		ByCategory:        byCategory,
	})
}

// Year returns per-month income and expense totals for one calendar year.
func (h *SummaryHandler) Year(c echo.Context) error {
	year, _, err := yearMonthParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	summary, err := h.summaries.YearSummary(c.Request().Context(), userID(c), year)
	if err != nil {
		return serverError(c)
	}

	months := make([]MonthTotalResponse, 0, len(summary.Months))
	for _, m := range summary.Months {
		months = append(months, MonthTotalResponse{
			Month:        m.Month,
			IncomeCents:  m.Income.Cents,
			ExpenseCents: m.Expense.Cents,
		})
	}

	return c.JSON(http.StatusOK, YearSummaryResponse{Year: summary.Year, Months: months})
}
