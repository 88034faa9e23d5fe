package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"kakeibo/internal/core"
)

type fakeSettingsStore struct {
	categories map[string][]core.Category
	incomes    map[string][]core.IncomeTemplate
	fixedCosts map[string][]core.FixedCostTemplate
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{
		categories: map[string][]core.Category{},
		incomes:    map[string][]core.IncomeTemplate{},
		fixedCosts: map[string][]core.FixedCostTemplate{},
	}
}

func (f *fakeSettingsStore) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	return f.categories[userID], nil
}

func (f *fakeSettingsStore) ReplaceCategories(_ context.Context, userID string, categories []core.Category) error {
	f.categories[userID] = categories
	return nil
}

func (f *fakeSettingsStore) ListIncomeTemplates(_ context.Context, userID string) ([]core.IncomeTemplate, error) {
	return f.incomes[userID], nil
}

func (f *fakeSettingsStore) ReplaceIncomeTemplates(_ context.Context, userID string, templates []core.IncomeTemplate) error {
	f.incomes[userID] = templates
	return nil
}

func (f *fakeSettingsStore) ListFixedCostTemplates(_ context.Context, userID string) ([]core.FixedCostTemplate, error) {
	return f.fixedCosts[userID], nil
}

func (f *fakeSettingsStore) ReplaceFixedCostTemplates(_ context.Context, userID string, templates []core.FixedCostTemplate) error {
	f.fixedCosts[userID] = templates
	return nil
}

func TestReplaceCategories_SortOrderFollowsPayload(t *testing.T) {
	store := newFakeSettingsStore()
	h := NewSettingsHandler(store)

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/categories",
		`{"categories":[{"name":"Food","budget_cents":4000000},{"name":"Housing","budget_cents":8500000}]}`)
	if err := h.ReplaceCategories(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	saved := store.categories[testUserID]
	if len(saved) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(saved))
	}
	if saved[0].Name != "Food" || saved[0].SortOrder != 0 || saved[1].SortOrder != 1 {
		t.Fatalf("unexpected ordering: %+v", saved)
	}
}

func TestReplaceCategories_EmptyNameRejected(t *testing.T) {
	h := NewSettingsHandler(newFakeSettingsStore())
	c, rec := newTestContext(t, http.MethodPut, "/api/v1/categories",
		`{"categories":[{"name":"","budget_cents":100}]}`)
	if err := h.ReplaceCategories(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReplaceIncomeTemplates(t *testing.T) {
	store := newFakeSettingsStore()
	store.incomes[testUserID] = []core.IncomeTemplate{{UserID: testUserID, Amount: core.Money{Cents: 1}, DayOfMonth: 1}}
	h := NewSettingsHandler(store)

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/settings/income-templates",
		`{"templates":[{"amount_cents":30000000,"day_of_month":25,"memo":"salary"}]}`)
	if err := h.ReplaceIncomeTemplates(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	saved := store.incomes[testUserID]
	if len(saved) != 1 || saved[0].DayOfMonth != 25 || saved[0].Amount.Cents != 30000000 {
		t.Fatalf("replace should discard the previous set: %+v", saved)
	}
}

func TestReplaceIncomeTemplates_DayOutOfRange(t *testing.T) {
	h := NewSettingsHandler(newFakeSettingsStore())
	c, rec := newTestContext(t, http.MethodPut, "/api/v1/settings/income-templates",
		`{"templates":[{"amount_cents":100,"day_of_month":32}]}`)
	if err := h.ReplaceIncomeTemplates(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReplaceFixedCostTemplates_EmptySetClears(t *testing.T) {
	store := newFakeSettingsStore()
	store.fixedCosts[testUserID] = []core.FixedCostTemplate{
		{UserID: testUserID, Category: "Housing", Amount: core.Money{Cents: 1}, DayOfMonth: 27},
	}
	h := NewSettingsHandler(store)

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/settings/fixed-cost-templates",
		`{"templates":[]}`)
	if err := h.ReplaceFixedCostTemplates(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if saved := store.fixedCosts[testUserID]; len(saved) != 0 {
		t.Fatalf("expected cleared set, got %+v", saved)
	}
}

func TestListFixedCostTemplates(t *testing.T) {
	store := newFakeSettingsStore()
	store.fixedCosts[testUserID] = []core.FixedCostTemplate{
		{UserID: testUserID, Category: "Housing", Memo: "rent", Amount: core.Money{Cents: 8500000}, DayOfMonth: 27},
	}
	h := NewSettingsHandler(store)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/settings/fixed-cost-templates", "")
	if err := h.ListFixedCostTemplates(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	var resp FixedCostTemplatesRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Templates) != 1 || resp.Templates[0].Category != "Housing" || resp.Templates[0].DayOfMonth != 27 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
