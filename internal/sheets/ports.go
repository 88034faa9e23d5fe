// Package sheets defines the outbound export port: ledger rows pushed to an
// external spreadsheet for backup and ad-hoc analysis.
package sheets

import "context"

// LedgerRow is the flattened, spreadsheet-friendly form of a ledger record.
type LedgerRow struct {
	Table       string // "income" or "expenses"
	UserID      string
	Date        string // as stored; may be empty for initial balances
	Memo        string
	Category    string // empty for income rows
	AmountCents int64
}

// LedgerAppender appends one ledger row to the export target and returns an
// adapter-specific reference to where it landed.
type LedgerAppender interface {
	Append(ctx context.Context, row LedgerRow) (rowRef string, err error)
}
