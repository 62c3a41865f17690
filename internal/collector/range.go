package collector

import "time"

// DefaultStart is the first day of the default lookup range.
var DefaultStart = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultRange returns the range used when no dates are given: DefaultStart
// up to today at midnight UTC. The end is exclusive, so the dashboard form,
// the CLI and the cache warm-up all produce the same history cache key.
func DefaultRange(now time.Time) (start, end time.Time) {
	now = now.UTC()
	return DefaultStart, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
