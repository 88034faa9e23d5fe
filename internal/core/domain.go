package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is an amount in integer minor units. Arithmetic stays in integers;
	// only display/ratio code converts out.
	Money struct {
		Cents int64
	}

	Date struct {
		time.Time
	}

	// IncomeTemplate is a user-configured recurring income rule. The generator
	// reads these; only the settings screens write them.
	IncomeTemplate struct {
		ID         int64
		UserID     string
		Amount     Money
		DayOfMonth int // nominal 1-31, clamped at materialization time
		Memo       string
	}

	// FixedCostTemplate is a user-configured recurring fixed expense rule.
	FixedCostTemplate struct {
		ID         int64
		UserID     string
		Memo       string
		Category   string
		Amount     Money
		DayOfMonth int
	}

	// Income is a ledger row. IncomeDay is empty for an "initial balance" row.
	Income struct {
		ID        int64
		UserID    string
		Amount    Money
		IncomeDay string
		Memo      string
		CreatedAt time.Time
	}

	// Expense is a ledger row with a concrete payment date (ISO yyyy-mm-dd).
	Expense struct {
		ID          int64
		UserID      string
		PaymentDate string
		Memo        string
		Category    string
		Amount      Money
		CreatedAt   time.Time
	}

	// Category is a user-defined expense category with a monthly budget.
	Category struct {
		ID        int64
		UserID    string
		Name      string
		Budget    Money
		SortOrder int
	}
)

var (
	ErrInvalidDay    = errors.New("day of month must be between 1 and 31")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyUserID   = errors.New("empty user id")
	ErrEmptyCategory = errors.New("empty category")
	ErrMemoTooLong   = errors.New("memo too long (max 200 characters)")
	ErrEmptyName     = errors.New("empty name")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func validateMemo(memo string) error {
	if len(memo) > 200 {
		return ErrMemoTooLong
	}
	return nil
}

func (t IncomeTemplate) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUserID
	}
	if t.DayOfMonth < 1 || t.DayOfMonth > 31 {
		return ErrInvalidDay
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return validateMemo(t.Memo)
}

func (t FixedCostTemplate) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUserID
	}
	if t.DayOfMonth < 1 || t.DayOfMonth > 31 {
		return ErrInvalidDay
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return validateMemo(t.Memo)
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.UserID) == "" {
		return ErrEmptyUserID
	}
	// Empty IncomeDay is allowed: it marks an initial-balance row.
	if i.IncomeDay != "" {
		if _, err := ParseISODate(i.IncomeDay); err != nil {
			return ErrInvalidDate
		}
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	return validateMemo(i.Memo)
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return ErrEmptyUserID
	}
	if _, err := ParseISODate(e.PaymentDate); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return validateMemo(e.Memo)
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Budget.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Day() int   { return d.Time.Day() }
func (d Date) Month() int { return int(d.Time.Month()) }
func (d Date) Year() int  { return d.Time.Year() }
