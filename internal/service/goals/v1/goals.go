// Package goals implements daily earnings-goal evaluation over point entries.
package goals

import (
	"time"

	"github.com/Mohammademon02/income-tracking-api/internal/models/modeldto"
	"github.com/Mohammademon02/income-tracking-api/internal/models/modelstorage"
)

// DailyGoalPoints is the fixed daily point goal.
const DailyGoalPoints = 2000

// DayWindow computes the inclusive boundaries of the calendar day containing t in the given location.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// MonthWindow computes the inclusive boundaries of the calendar month containing t in the given location.
func MonthWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// Evaluate computes progress against the daily goal for entries belonging to one calendar day.
// Progress is clamped to 100.
func Evaluate(date time.Time, entries []modelstorage.EntryStorageEntry) modeldto.DailyGoal {
	var todayPoints int
	for _, entry := range entries {
		todayPoints += entry.Points
	}
	progress := float64(todayPoints) / float64(DailyGoalPoints) * 100
	if progress > 100 {
		progress = 100
	}
	return modeldto.DailyGoal{
		TodayPoints: todayPoints,
		GoalPoints:  DailyGoalPoints,
		Achieved:    todayPoints >= DailyGoalPoints,
		Progress:    progress,
		Date:        date.Format("2006-01-02"),
	}
}
