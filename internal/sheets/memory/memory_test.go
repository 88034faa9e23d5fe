package memory

import (
	"context"
	"testing"

	"kakeibo/internal/sheets"
)

func TestStoreAppend(t *testing.T) {
	s := New()

	ref, err := s.Append(context.Background(), sheets.LedgerRow{
		Table:       "expenses",
		UserID:      "u1",
		Date:        "2024-04-25",
		Memo:        "rent",
		Category:    "Housing",
		AmountCents: 8500000,
	})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	ref, err = s.Append(context.Background(), sheets.LedgerRow{Table: "income", UserID: "u1", Date: "25", AmountCents: 30000000})
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	rows := s.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Memo != "rent" || rows[1].Table != "income" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
