package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"kakeibo/internal/core"
	"kakeibo/internal/storage"
)

// LedgerStore is the slice of the repository the ledger handlers need.
type LedgerStore interface {
	CreateIncome(ctx context.Context, in core.Income) (int64, error)
	UpdateIncome(ctx context.Context, in core.Income) error
	DeleteIncome(ctx context.Context, userID string, id int64) error
	ListIncomesByRange(ctx context.Context, userID, first, last string) ([]core.Income, error)

	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, userID string, id int64) error
	ListExpensesByRange(ctx context.Context, userID, first, last string) ([]core.Expense, error)
}

// Publisher notifies the export worker about a new or changed ledger row.
// A nil Publisher disables export notifications.
type Publisher interface {
	PublishLedgerSync(ctx context.Context, table string, id int64) error
}

type LedgerHandler struct {
	store     LedgerStore
	publisher Publisher
}

func NewLedgerHandler(store LedgerStore, publisher Publisher) *LedgerHandler {
	return &LedgerHandler{store: store, publisher: publisher}
}

type IncomeRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	IncomeDay   string `json:"income_day"` // ISO date; empty marks an initial balance
	Memo        string `json:"memo" validate:"max=200"`
}

type IncomeResponse struct {
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	IncomeDay   string    `json:"income_day,omitempty"`
	Memo        string    `json:"memo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ExpenseRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	PaymentDate string `json:"payment_date" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Memo        string `json:"memo" validate:"max=200"`
}

type ExpenseResponse struct {
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	PaymentDate string    `json:"payment_date"`
	Category    string    `json:"category"`
	Memo        string    `json:"memo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListIncomes returns the caller's income rows for one calendar month.
func (h *LedgerHandler) ListIncomes(c echo.Context) error {
	year, month, err := yearMonthParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	first, last := core.MonthBounds(year, month)
	incomes, err := h.store.ListIncomesByRange(c.Request().Context(), userID(c), first, last)
	if err != nil {
		return serverError(c)
	}

	response := make([]IncomeResponse, 0, len(incomes))
	for _, in := range incomes {
		response = append(response, toIncomeResponse(in))
	}
	return c.JSON(http.StatusOK, map[string][]IncomeResponse{"incomes": response})
}

// CreateIncome records a manual income row.
func (h *LedgerHandler) CreateIncome(c echo.Context) error {
	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	in := core.Income{
		UserID:    userID(c),
		Amount:    core.Money{Cents: req.AmountCents},
		IncomeDay: req.IncomeDay,
		Memo:      req.Memo,
	}
	if err := in.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	id, err := h.store.CreateIncome(c.Request().Context(), in)
	if err != nil {
		return serverError(c)
	}
	h.notify(c.Request().Context(), storage.TableIncome, id)

	in.ID = id
	return c.JSON(http.StatusCreated, toIncomeResponse(in))
}

// UpdateIncome rewrites one of the caller's income rows.
func (h *LedgerHandler) UpdateIncome(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}

	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	in := core.Income{
		ID:        id,
		UserID:    userID(c),
		Amount:    core.Money{Cents: req.AmountCents},
		IncomeDay: req.IncomeDay,
		Memo:      req.Memo,
	}
	if err := in.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.store.UpdateIncome(c.Request().Context(), in); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(c, "income not found")
		}
		return serverError(c)
	}
	h.notify(c.Request().Context(), storage.TableIncome, id)

	return c.JSON(http.StatusOK, toIncomeResponse(in))
}

// DeleteIncome removes one of the caller's income rows.
func (h *LedgerHandler) DeleteIncome(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.store.DeleteIncome(c.Request().Context(), userID(c), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(c, "income not found")
		}
		return serverError(c)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListExpenses returns the caller's expenses for one calendar month.
func (h *LedgerHandler) ListExpenses(c echo.Context) error {
	year, month, err := yearMonthParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	first, last := core.MonthBounds(year, month)
	expenses, err := h.store.ListExpensesByRange(c.Request().Context(), userID(c), first, last)
	if err != nil {
		return serverError(c)
	}

	response := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		response = append(response, toExpenseResponse(e))
	}
	return c.JSON(http.StatusOK, map[string][]ExpenseResponse{"expenses": response})
}

// CreateExpense records a manual expense row.
func (h *LedgerHandler) CreateExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	e := core.Expense{
		UserID:      userID(c),
		Amount:      core.Money{Cents: req.AmountCents},
		PaymentDate: req.PaymentDate,
		Category:    req.Category,
		Memo:        req.Memo,
	}
	if err := e.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	id, err := h.store.CreateExpense(c.Request().Context(), e)
	if err != nil {
		return serverError(c)
	}
	h.notify(c.Request().Context(), storage.TableExpenses, id)

	e.ID = id
	return c.JSON(http.StatusCreated, toExpenseResponse(e))
}

// UpdateExpense rewrites one of the caller's expenses.
func (h *LedgerHandler) UpdateExpense(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	e := core.Expense{
		ID:          id,
		UserID:      userID(c),
		Amount:      core.Money{Cents: req.AmountCents},
		PaymentDate: req.PaymentDate,
		Category:    req.Category,
		Memo:        req.Memo,
	}
	if err := e.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.store.UpdateExpense(c.Request().Context(), e); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(c, "expense not found")
		}
		return serverError(c)
	}
	h.notify(c.Request().Context(), storage.TableExpenses, id)

	return c.JSON(http.StatusOK, toExpenseResponse(e))
}

// DeleteExpense removes one of the caller's expenses.
func (h *LedgerHandler) DeleteExpense(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.store.DeleteExpense(c.Request().Context(), userID(c), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(c, "expense not found")
		}
		return serverError(c)
	}
	return c.NoContent(http.StatusNoContent)
}

// notify publishes a sync message best-effort. Export is eventually consistent;
// the pending scan in the worker covers lost messages.
func (h *LedgerHandler) notify(ctx context.Context, table string, id int64) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishLedgerSync(ctx, table, id); err != nil {
		slog.WarnContext(ctx, "failed to publish sync message",
			"table", table, "id", id, "error", err)
	}
}

func toIncomeResponse(in core.Income) IncomeResponse {
	return IncomeResponse{
		ID:          in.ID,
		AmountCents: in.Amount.Cents,
		IncomeDay:   in.IncomeDay,
		Memo:        in.Memo,
		CreatedAt:   in.CreatedAt,
	}
}

func toExpenseResponse(e core.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		PaymentDate: e.PaymentDate,
		Category:    e.Category,
		Memo:        e.Memo,
		CreatedAt:   e.CreatedAt,
	}
}
