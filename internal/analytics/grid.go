package analytics

import "time"

// maxGridDays caps the contribution grid at roughly one year of columns.
const maxGridDays = 365

// GridCell is one day cell of the contribution grid. Cells outside the
// requested period are padding: they render dimmed and are excluded from
// intensity scaling and interaction.
type GridCell struct {
	Date       time.Time `json:"date"`
	Volume     float64   `json:"volume"`
	IsToday    bool      `json:"isToday"`
	IsInPeriod bool      `json:"isInPeriod"`
}

// ContributionGrid is a calendar-heatmap layout: each entry of Weeks is one
// column of exactly 7 cells, Monday through Sunday.
type ContributionGrid struct {
	Weeks          [][]GridCell `json:"weeks"`
	IsCappedToYear bool         `json:"isCappedToYear"`
}

// BuildContributionGrid lays the date range out onto a weekday-by-week grid.
// Ranges longer than a year are clamped to the most recent 365 days. The grid
// always covers whole weeks: cells before the range start or after its end
// are emitted with IsInPeriod=false. An empty volume map still produces the
// full all-zero grid, so callers can render an axis skeleton.
// "today" is passed in to keep the layout deterministic.
func BuildContributionGrid(volumes DailyVolumeMap, r DateRange, today time.Time) ContributionGrid {
	grid := ContributionGrid{
		Weeks: make([][]GridCell, 0),
	}

	displayed := r
	if r.DaySpan() > maxGridDays {
		displayed.Start = displayed.End.AddDate(0, 0, -(maxGridDays - 1))
		grid.IsCappedToYear = true
	}

	todayDay := dayStart(today)

	// column-major: fill a whole Mon-Sun column before advancing to the next,
	// mirroring the visual layout of a calendar heatmap
	for week := weekStart(displayed.Start); !week.After(displayed.End); week = week.AddDate(0, 0, 7) {
		column := make([]GridCell, 0, 7)
		for weekday := 0; weekday < 7; weekday++ {
			day := week.AddDate(0, 0, weekday)
			column = append(column, GridCell{
				Date:       day,
				Volume:     volumes[dayKey(day)],
				IsToday:    day.Equal(todayDay),
				IsInPeriod: displayed.ContainsDay(day),
			})
		}
		grid.Weeks = append(grid.Weeks, column)
	}

	return grid
}
