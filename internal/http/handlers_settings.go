package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"kakeibo/internal/core"
)

// SettingsStore covers the replace-on-save settings screens: categories and
// the two recurring template sets.
type SettingsStore interface {
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
	ReplaceCategories(ctx context.Context, userID string, categories []core.Category) error

	ListIncomeTemplates(ctx context.Context, userID string) ([]core.IncomeTemplate, error)
	ReplaceIncomeTemplates(ctx context.Context, userID string, templates []core.IncomeTemplate) error

	ListFixedCostTemplates(ctx context.Context, userID string) ([]core.FixedCostTemplate, error)
	ReplaceFixedCostTemplates(ctx context.Context, userID string, templates []core.FixedCostTemplate) error
}

type SettingsHandler struct {
	store SettingsStore
}

func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

type CategoryItem struct {
	Name        string `json:"name" validate:"required"`
	BudgetCents int64  `json:"budget_cents" validate:"gte=0"`
}

type CategoriesRequest struct {
	Categories []CategoryItem `json:"categories" validate:"required,dive"`
}

type IncomeTemplateItem struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	DayOfMonth  int    `json:"day_of_month" validate:"required,min=1,max=31"`
	Memo        string `json:"memo" validate:"max=200"`
}

type IncomeTemplatesRequest struct {
	Templates []IncomeTemplateItem `json:"templates" validate:"required,dive"`
}

type FixedCostTemplateItem struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	DayOfMonth  int    `json:"day_of_month" validate:"required,min=1,max=31"`
	Category    string `json:"category" validate:"required"`
	Memo        string `json:"memo" validate:"max=200"`
}

type FixedCostTemplatesRequest struct {
	Templates []FixedCostTemplateItem `json:"templates" validate:"required,dive"`
}

// ListCategories returns the caller's categories in display order.
func (h *SettingsHandler) ListCategories(c echo.Context) error {
	categories, err := h.store.ListCategories(c.Request().Context(), userID(c))
	if err != nil {
		return serverError(c)
	}

	items := make([]CategoryItem, 0, len(categories))
	for _, cat := range categories {
		items = append(items, CategoryItem{Name: cat.Name, BudgetCents: cat.Budget.Cents})
	}
	return c.JSON(http.StatusOK, CategoriesRequest{Categories: items})
}

// ReplaceCategories saves the whole category set, replacing the previous one.
// Display order follows the order of the submitted list.
func (h *SettingsHandler) ReplaceCategories(c echo.Context) error {
	var req CategoriesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	uid := userID(c)
	categories := make([]core.Category, 0, len(req.Categories))
	for i, item := range req.Categories {
		cat := core.Category{
			UserID:    uid,
			Name:      item.Name,
			Budget:    core.Money{Cents: item.BudgetCents},
			SortOrder: i,
		}
		if err := cat.Validate(); err != nil {
			return badRequest(c, err.Error())
		}
		categories = append(categories, cat)
	}

	if err := h.store.ReplaceCategories(c.Request().Context(), uid, categories); err != nil {
		return serverError(c)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListIncomeTemplates returns the caller's recurring income rules.
func (h *SettingsHandler) ListIncomeTemplates(c echo.Context) error {
	templates, err := h.store.ListIncomeTemplates(c.Request().Context(), userID(c))
	if err != nil {
		return serverError(c)
	}

	items := make([]IncomeTemplateItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, IncomeTemplateItem{
			AmountCents: t.Amount.Cents,
			DayOfMonth:  t.DayOfMonth,
			Memo:        t.Memo,
		})
	}
	return c.JSON(http.StatusOK, IncomeTemplatesRequest{Templates: items})
}

// ReplaceIncomeTemplates saves the whole income template set.
func (h *SettingsHandler) ReplaceIncomeTemplates(c echo.Context) error {
	var req IncomeTemplatesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	uid := userID(c)
	templates := make([]core.IncomeTemplate, 0, len(req.Templates))
	for _, item := range req.Templates {
		t := core.IncomeTemplate{
			UserID:     uid,
			Amount:     core.Money{Cents: item.AmountCents},
			DayOfMonth: item.DayOfMonth,
			Memo:       item.Memo,
		}
		if err := t.Validate(); err != nil {
			return badRequest(c, err.Error())
		}
		templates = append(templates, t)
	}

	if err := h.store.ReplaceIncomeTemplates(c.Request().Context(), uid, templates); err != nil {
		return serverError(c)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListFixedCostTemplates returns the caller's recurring fixed cost rules.
func (h *SettingsHandler) ListFixedCostTemplates(c echo.Context) error {
	templates, err := h.store.ListFixedCostTemplates(c.Request().Context(), userID(c))
	if err != nil {
		return serverError(c)
	}

	items := make([]FixedCostTemplateItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, FixedCostTemplateItem{
			AmountCents: t.Amount.Cents,
			DayOfMonth:  t.DayOfMonth,
			Category:    t.Category,
			Memo:        t.Memo,
		})
	}
	return c.JSON(http.StatusOK, FixedCostTemplatesRequest{Templates: items})
}

// ReplaceFixedCostTemplates saves the whole fixed cost template set.
func (h *SettingsHandler) ReplaceFixedCostTemplates(c echo.Context) error {
	var req FixedCostTemplatesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	uid := userID(c)
	templates := make([]core.FixedCostTemplate, 0, len(req.Templates))
	for _, item := range req.Templates {
		t := core.FixedCostTemplate{
			UserID:     uid,
			Amount:     core.Money{Cents: item.AmountCents},
			DayOfMonth: item.DayOfMonth,
			Category:   item.Category,
			Memo:       item.Memo,
		}
		if err := t.Validate(); err != nil {
			return badRequest(c, err.Error())
		}
		templates = append(templates, t)
	}

	if err := h.store.ReplaceFixedCostTemplates(c.Request().Context(), uid, templates); err != nil {
		return serverError(c)
	}
	return c.NoContent(http.StatusNoContent)
}
