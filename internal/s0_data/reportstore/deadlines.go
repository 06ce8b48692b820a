package reportstore

import "time"

// Quarterly filings land around the end of the month following each
// fiscal quarter. A bundle fetched before the most recent deadline may
// be missing a freshly filed period, so it must be refetched.
var deadlineMonths = []time.Month{time.January, time.April, time.July, time.October}

const deadlineDay = 30

// fiscalDeadlines returns the filing deadlines for the current and
// prior year, oldest first.
func fiscalDeadlines(now time.Time) []time.Time {
	deadlines := make([]time.Time, 0, 8)
	for _, year := range []int{now.Year() - 1, now.Year()} {
		for _, month := range deadlineMonths {
			deadlines = append(deadlines, time.Date(year, month, deadlineDay, 0, 0, 0, 0, now.Location()))
		}
	}
	return deadlines
}

// lastDeadline returns the most recent deadline at or before now, and
// false if none has passed in the window.
func lastDeadline(now time.Time) (time.Time, bool) {
	deadlines := fiscalDeadlines(now)
	for i := len(deadlines) - 1; i >= 0; i-- {
		if !deadlines[i].After(now) {
			return deadlines[i], true
		}
	}
	return time.Time{}, false
}

// Stale reports whether data fetched at fetchedAt predates the latest
// passed fiscal deadline.
func Stale(fetchedAt, now time.Time) bool {
	if fetchedAt.IsZero() {
		return true
	}
	d, ok := lastDeadline(now)
	if !ok {
		return false
	}
	return fetchedAt.Before(d)
}
