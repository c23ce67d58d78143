package analytics

import "time"

// SetClock replaces the analyzer's clock, so tests can control the
// reference date used for period resolution and memoization keys.
func (a *Analyzer) SetClock(now func() time.Time) {
	a.now = now
}
