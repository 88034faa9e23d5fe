// Package worker synchronizes ledger rows from SQLite to the spreadsheet
// export target.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/sheets"
	"kakeibo/internal/storage"
)

// SyncStore is the slice of the repository the worker needs.
type SyncStore interface {
	GetIncome(ctx context.Context, id int64) (core.Income, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	ListPendingSync(ctx context.Context, table string, limit int) ([]int64, error)
	MarkSynced(ctx context.Context, table string, id int64) error
	MarkSyncError(ctx context.Context, table string, id int64) error
}

// SyncWorker pushes ledger rows to the export appender and tracks sync state.
type SyncWorker struct {
	store     SyncStore
	appender  sheets.LedgerAppender
	batchSize int
}

func NewSyncWorker(store SyncStore, appender sheets.LedgerAppender, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SyncWorker{store: store, appender: appender, batchSize: batchSize}
}

// HandleSyncMessage processes a single ledger sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "table", msg.Table, "id", msg.ID)
	return w.syncRow(ctx, msg.Table, msg.ID)
}

// StartupSyncCheck pushes any rows still marked pending. It recovers from
// missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	total, synced, failed := 0, 0, 0
	for _, table := range []string{storage.TableIncome, storage.TableExpenses} {
		ids, err := w.store.ListPendingSync(ctx, table, w.batchSize*5)
		if err != nil {
			return fmt.Errorf("list pending %s: %w", table, err)
		}
		total += len(ids)
		for _, id := range ids {
			if err := w.syncRow(ctx, table, id); err != nil {
				slog.ErrorContext(ctx, "Startup sync failed for row",
					"table", table, "id", id, "error", err)
				failed++
				continue
			}
			synced++
		}
	}
	if total == 0 {
		slog.InfoContext(ctx, "No pending rows found on startup")
		return nil
	}
	slog.InfoContext(ctx, "Startup sync completed",
		"total", total, "synced", synced, "errors", failed)
	return nil
}

// ProcessPending pushes one batch of pending rows per table. It is the
// periodic backup path in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	for _, table := range []string{storage.TableIncome, storage.TableExpenses} {
		ids, err := w.store.ListPendingSync(ctx, table, w.batchSize)
		if err != nil {
			return fmt.Errorf("list pending %s: %w", table, err)
		}
		for _, id := range ids {
			if err := w.syncRow(ctx, table, id); err != nil {
				slog.ErrorContext(ctx, "Failed to sync pending row",
					"table", table, "id", id, "error", err)
			}
		}
	}
	return nil
}

func (w *SyncWorker) syncRow(ctx context.Context, table string, id int64) error {
	row, err := w.loadRow(ctx, table, id)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, table, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"table", table, "id", id, "error", markErr)
		}
		return fmt.Errorf("load %s row %d: %w", table, id, err)
	}

	ref, err := w.appender.Append(ctx, row)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, table, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"table", table, "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.store.MarkSynced(ctx, table, id); err != nil {
		// The append succeeded; the row will be retried and deduplicated by ref.
		slog.ErrorContext(ctx, "Failed to mark as synced",
			"table", table, "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Synced ledger row",
		"table", table, "id", id, "sheets_ref", ref)
	return nil
}

func (w *SyncWorker) loadRow(ctx context.Context, table string, id int64) (sheets.LedgerRow, error) {
	switch table {
	case storage.TableIncome:
		in, err := w.store.GetIncome(ctx, id)
		if err != nil {
			return sheets.LedgerRow{}, err
		}
		return sheets.LedgerRow{
			Table:       table,
			UserID:      in.UserID,
			Date:        in.IncomeDay,
			Memo:        in.Memo,
			AmountCents: in.Amount.Cents,
		}, nil
	case storage.TableExpenses:
		e, err := w.store.GetExpense(ctx, id)
		if err != nil {
			return sheets.LedgerRow{}, err
		}
		return sheets.LedgerRow{
			Table:       table,
			UserID:      e.UserID,
			Date:        e.PaymentDate,
			Memo:        e.Memo,
			Category:    e.Category,
			AmountCents: e.Amount.Cents,
		}, nil
	default:
		return sheets.LedgerRow{}, fmt.Errorf("unknown table %q", table)
	}
}
