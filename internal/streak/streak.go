// Package streak computes the consecutive-day practice streak from session
// timestamps. Days are UTC calendar days; the evaluation time is an explicit
// argument so the engine never reads the wall clock.
package streak

import (
	"sort"
	"time"
)

// Days returns the current streak length: the number of consecutive UTC
// calendar days with at least one session, counted backward from the most
// recent day. The streak is 0 when there are no sessions, or when the most
// recent session day is neither today nor yesterday relative to now.
func Days(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[time.Time]bool, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := toDay(d)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := toDay(now)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	count := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			break
		}
		count++
	}
	return count
}

// toDay truncates a timestamp to its UTC calendar day.
func toDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
