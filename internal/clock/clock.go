// Package clock provides the time source used when deciding which calendar
// day "today" is. The application pins day-of-month comparisons to a fixed
// UTC+9 offset so behavior does not depend on where the host runs.
package clock

import "time"

// JST is the fixed UTC+9 offset used for all "today" computations.
var JST = time.FixedZone("JST", 9*60*60)

// Clock supplies the current instant. Injected so tests can pin arbitrary
// dates (leap days, month ends) without touching host time.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time { return f.Instant }

// Today returns the calendar date of the clock's current instant in JST.
func Today(c Clock) time.Time {
	return c.Now().In(JST)
}
