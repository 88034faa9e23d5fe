// Package core holds the domain types shared across the application.
//
// This file contains the calendar arithmetic used when recurring templates
// are materialized into dated ledger rows: month-length lookup, day clamping
// and ISO date formatting.
package core

import (
	"fmt"
	"time"
)

const isoDateLayout = "2006-01-02"

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay reduces a nominal day-of-month to the last valid day of the given
// month when the nominal day does not exist in it (e.g. 31 -> Feb 28/29).
func ClampDay(day, year int, month time.Month) int {
	if last := DaysIn(year, month); day > last {
		return last
	}
	return day
}

// ISODate formats a zero-padded yyyy-mm-dd calendar date string.
func ISODate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseISODate parses a yyyy-mm-dd string into a Date.
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MonthBounds returns the first and last ISO dates of a month, for range
// queries against the ledger tables.
func MonthBounds(year int, month time.Month) (first, last string) {
	return ISODate(year, month, 1), ISODate(year, month, DaysIn(year, month))
}
