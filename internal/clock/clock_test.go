package clock

import (
	"testing"
	"time"
)

func TestToday_ShiftsToJST(t *testing.T) {
	tests := []struct {
		name    string
		instant time.Time
		wantDay int
	}{
		{
			// 16:00 UTC is 01:00 next day in JST.
			name:    "late UTC evening rolls to next JST day",
			instant: time.Date(2024, 4, 30, 16, 0, 0, 0, time.UTC),
			wantDay: 1,
		},
		{
			name:    "UTC morning stays on same JST day",
			instant: time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC),
			wantDay: 30,
		},
		{
			// Host-local timezone must not matter: same instant expressed in
			// a western zone still lands on the same JST day.
			name:    "instant expressed in UTC-8 gives same JST day",
			instant: time.Date(2024, 4, 30, 8, 0, 0, 0, time.FixedZone("PST", -8*60*60)),
			wantDay: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			today := Today(Fixed{Instant: tt.instant})
			if today.Day() != tt.wantDay {
				t.Errorf("Today().Day() = %d, want %d", today.Day(), tt.wantDay)
			}
		})
	}
}

func TestFixed_Now(t *testing.T) {
	instant := time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)
	c := Fixed{Instant: instant}
	if !c.Now().Equal(instant) {
		t.Errorf("Fixed.Now() = %v, want %v", c.Now(), instant)
	}
}
