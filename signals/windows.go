package signals

import "time"

// Windows holds the fixed time windows all signal counts are computed over.
// Every window in one aggregation call derives from the same now value so the
// counts stay mutually consistent.
type Windows struct {
	TodayStart time.Time
	TodayEnd   time.Time
	Last24h    time.Time
	Last7d     time.Time
	Next30d    time.Time
	Now        time.Time
}

// ComputeWindows derives the signal windows from now. The calendar day
// boundary uses the supplied location so buildings see their own local "today";
// a nil location falls back to UTC.
func ComputeWindows(now time.Time, loc *time.Location) Windows {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Windows{
		TodayStart: dayStart,
		TodayEnd:   dayStart.Add(24 * time.Hour),
		Last24h:    now.Add(-24 * time.Hour),
		Last7d:     now.Add(-7 * 24 * time.Hour),
		Next30d:    now.Add(30 * 24 * time.Hour),
		Now:        now,
	}
}
