// Package services holds the business logic that sits between the HTTP
// surface and storage: the recurring-entry generator and the period
// summaries.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"kakeibo/internal/clock"
	"kakeibo/internal/core"
	"kakeibo/internal/storage"
)

// GeneratorStore is the storage surface the generator needs.
type GeneratorStore interface {
	ListIncomeTemplatesDue(ctx context.Context, day, lastDay int) ([]core.IncomeTemplate, error)
	ListFixedCostTemplatesDue(ctx context.Context, day, lastDay int) ([]core.FixedCostTemplate, error)
	InsertGeneratedIncomes(ctx context.Context, entryDate string, rows []storage.GeneratedIncome) (ids []int64, skipped int, err error)
	InsertGeneratedExpenses(ctx context.Context, entryDate string, rows []storage.GeneratedExpense) (ids []int64, skipped int, err error)
}

// SyncPublisher announces freshly inserted ledger rows to the export
// pipeline. May be nil when the pipeline is disabled.
type SyncPublisher interface {
	PublishLedgerSync(ctx context.Context, table string, id int64) error
}

// PhaseResult is the outcome of one expansion phase.
type PhaseResult struct {
	Matched  int
	Inserted int
	Skipped  int // suppressed by the per-day re-run guard
	Err      error
}

// RunResult is the structured outcome of one generator run. Phase failures
// live here rather than in an error return: the job's contract with its
// scheduler is to always acknowledge and leave the details to logs and the
// result.
type RunResult struct {
	Date      string // the JST calendar date the run materialized
	Income    PhaseResult
	FixedCost PhaseResult
}

// Generator materializes recurring income and fixed-cost templates into
// ledger rows once per calendar day.
type Generator struct {
	store     GeneratorStore
	publisher SyncPublisher
	clock     clock.Clock

	// fullIncomeDate writes a clamped yyyy-mm-dd date into income_day.
	// The historical behavior, kept as the default, writes the bare nominal
	// day number; downstream consumers may rely on it, so the corrected form
	// stays opt-in until that is settled.
	fullIncomeDate bool
}

func NewGenerator(store GeneratorStore, publisher SyncPublisher, clk clock.Clock, fullIncomeDate bool) *Generator {
	return &Generator{
		store:          store,
		publisher:      publisher,
		clock:          clk,
		fullIncomeDate: fullIncomeDate,
	}
}

// Run expands all templates due today into ledger rows. The two phases are
// independent: a failure in one is recorded and logged but never stops the
// other. Run itself never fails.
func (g *Generator) Run(ctx context.Context) RunResult {
	today := clock.Today(g.clock)
	year, month, day := today.Year(), today.Month(), today.Day()
	lastDay := core.DaysIn(year, month)
	entryDate := core.ISODate(year, month, day)

	result := RunResult{Date: entryDate}

	slog.InfoContext(ctx, "recurring generation started",
		"date", entryDate,
		"day", day,
		"last_day", lastDay)

	result.Income = g.runIncomePhase(ctx, year, month, day, lastDay, entryDate)
	result.FixedCost = g.runFixedCostPhase(ctx, year, month, day, lastDay, entryDate)

	slog.InfoContext(ctx, "recurring generation finished",
		"date", entryDate,
		"income_inserted", result.Income.Inserted,
		"income_skipped", result.Income.Skipped,
		"fixed_cost_inserted", result.FixedCost.Inserted,
		"fixed_cost_skipped", result.FixedCost.Skipped)

	return result
}

func (g *Generator) runIncomePhase(ctx context.Context, year int, month time.Month, day, lastDay int, entryDate string) PhaseResult {
	var res PhaseResult

	templates, err := g.store.ListIncomeTemplatesDue(ctx, day, lastDay)
	if err != nil {
		res.Err = fmt.Errorf("list due income templates: %w", err)
		slog.ErrorContext(ctx, "income phase failed", "phase", "income", "error", err)
		return res
	}
	res.Matched = len(templates)
	if len(templates) == 0 {
		return res
	}

	rows := make([]storage.GeneratedIncome, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, storage.GeneratedIncome{
			TemplateID: t.ID,
			Income: core.Income{
				UserID:    t.UserID,
				Amount:    t.Amount,
				IncomeDay: g.incomeDay(t.DayOfMonth, year, month),
				Memo:      t.Memo,
			},
		})
	}

	ids, skipped, err := g.store.InsertGeneratedIncomes(ctx, entryDate, rows)
	if err != nil {
		res.Err = fmt.Errorf("insert generated incomes: %w", err)
		slog.ErrorContext(ctx, "income phase failed", "phase", "income", "error", err)
		return res
	}
	res.Inserted = len(ids)
	res.Skipped = skipped

	g.publishAll(ctx, storage.TableIncome, ids)
	return res
}

func (g *Generator) runFixedCostPhase(ctx context.Context, year int, month time.Month, day, lastDay int, entryDate string) PhaseResult {
	var res PhaseResult

	templates, err := g.store.ListFixedCostTemplatesDue(ctx, day, lastDay)
	if err != nil {
		res.Err = fmt.Errorf("list due fixed cost templates: %w", err)
		slog.ErrorContext(ctx, "fixed cost phase failed", "phase", "fixed_cost", "error", err)
		return res
	}
	res.Matched = len(templates)
	if len(templates) == 0 {
		return res
	}

	rows := make([]storage.GeneratedExpense, 0, len(templates))
	for _, t := range templates {
		actualDay := core.ClampDay(t.DayOfMonth, year, month)
		rows = append(rows, storage.GeneratedExpense{
			TemplateID: t.ID,
			Expense: core.Expense{
				UserID:      t.UserID,
				PaymentDate: core.ISODate(year, month, actualDay),
				Memo:        t.Memo,
				Category:    t.Category,
				Amount:      t.Amount,
			},
		})
	}

	ids, skipped, err := g.store.InsertGeneratedExpenses(ctx, entryDate, rows)
	if err != nil {
		res.Err = fmt.Errorf("insert generated expenses: %w", err)
		slog.ErrorContext(ctx, "fixed cost phase failed", "phase", "fixed_cost", "error", err)
		return res
	}
	res.Inserted = len(ids)
	res.Skipped = skipped

	g.publishAll(ctx, storage.TableExpenses, ids)
	return res
}

// incomeDay renders the income_day value for a generated row.
func (g *Generator) incomeDay(nominalDay, year int, month time.Month) string {
	if g.fullIncomeDate {
		return core.ISODate(year, month, core.ClampDay(nominalDay, year, month))
	}
	return strconv.Itoa(nominalDay)
}

// publishAll pushes export messages best-effort; a publish failure never
// fails the run since the rows are already committed.
func (g *Generator) publishAll(ctx context.Context, table string, ids []int64) {
	if g.publisher == nil {
		return
	}
	for _, id := range ids {
		if err := g.publisher.PublishLedgerSync(ctx, table, id); err != nil {
			slog.ErrorContext(ctx, "failed to publish ledger sync",
				"table", table,
				"row_id", id,
				"error", err)
		}
	}
}
