package booking

import (
	"sort"
	"time"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
)

// NoAvailabilityMessage labels weekdays without a declared window.
const NoAvailabilityMessage = "no availability registered"

var schoolWeek = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// ProjectAvailability groups entries by weekday, Monday through Friday, sorted by start time.
// Weekend entries are appended only when present.
func ProjectAvailability(studentID string, entries []models.AvailabilityEntry) models.Schedule {
	byDay := make(map[time.Weekday][]models.AvailabilityEntry)
	for _, entry := range entries {
		day := time.Weekday(entry.Weekday)
		byDay[day] = append(byDay[day], entry)
	}

	days := append([]time.Weekday{}, schoolWeek...)
	for _, weekend := range []time.Weekday{time.Saturday, time.Sunday} {
		if len(byDay[weekend]) > 0 {
			days = append(days, weekend)
		}
	}

	schedule := models.Schedule{StudentID: studentID, Days: make([]models.DaySchedule, 0, len(days))}
	for _, day := range days {
		windows := byDay[day]
		sort.SliceStable(windows, func(i, j int) bool {
			if windows[i].StartTime == windows[j].StartTime {
				return windows[i].EndTime < windows[j].EndTime
			}
			return windows[i].StartTime < windows[j].StartTime
		})
		ds := models.DaySchedule{Weekday: models.Weekday(day), Windows: windows}
		if len(windows) == 0 {
			ds.Windows = []models.AvailabilityEntry{}
			ds.Message = NoAvailabilityMessage
		}
		schedule.Days = append(schedule.Days, ds)
	}
	return schedule
}
