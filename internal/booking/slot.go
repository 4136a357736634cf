package booking

import (
	"time"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
)

// SlotPolicy holds the business window and booking horizon.
type SlotPolicy struct {
	HorizonDays int
	OpenHour    int
	CloseHour   int
	// LenientEnd accepts sessions that run past CloseHour as long as they start before it.
	LenientEnd bool
}

// DefaultSlotPolicy books 07:00-18:00 on weekdays, up to 30 days ahead.
func DefaultSlotPolicy() SlotPolicy {
	return SlotPolicy{HorizonDays: 30, OpenHour: 7, CloseHour: 18}
}

// Slot is a validated date and time window.
type Slot struct {
	Date            models.Date  `json:"date"`
	StartTime       models.Clock `json:"start_time"`
	EndTime         models.Clock `json:"end_time"`
	DurationMinutes int          `json:"duration_minutes"`
}

// SlotValidator checks candidate slots against the booking policy.
type SlotValidator struct {
	policy   SlotPolicy
	location *time.Location
	now      func() time.Time
}

// NewSlotValidator builds a validator. A nil location means UTC and a nil clock means time.Now.
func NewSlotValidator(policy SlotPolicy, location *time.Location, now func() time.Time) *SlotValidator {
	if policy.HorizonDays <= 0 {
		policy.HorizonDays = 30
	}
	if policy.CloseHour <= policy.OpenHour {
		defaults := DefaultSlotPolicy()
		policy.OpenHour, policy.CloseHour = defaults.OpenHour, defaults.CloseHour
	}
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &SlotValidator{policy: policy, location: location, now: now}
}

// Today returns the current calendar day in the validator's time zone.
func (v *SlotValidator) Today() models.Date {
	return models.DateOf(v.now().In(v.location))
}

// Validate checks date, start and duration and derives the end time.
// Weekend dates are rejected before any other rule.
func (v *SlotValidator) Validate(date models.Date, start models.Clock, durationMinutes int) (Slot, error) {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return Slot{}, ErrWeekend
	}

	today := v.Today()
	earliest := today.AddDays(1)
	latest := today.AddDays(v.policy.HorizonDays)
	if date.IsZero() || date.Before(earliest) || date.After(latest) {
		return Slot{}, ErrOutOfRange
	}

	if hour := start.Hour(); hour < v.policy.OpenHour || hour >= v.policy.CloseHour {
		return Slot{}, ErrOutsideBusinessHours
	}

	if !ValidDuration(durationMinutes) {
		return Slot{}, ErrInvalidDuration
	}

	end := start.Add(durationMinutes)
	if !v.policy.LenientEnd {
		closing := models.NewClock(v.policy.CloseHour, 0)
		if end <= start || end > closing {
			return Slot{}, ErrEndsAfterClosing
		}
	}

	return Slot{Date: date, StartTime: start, EndTime: end, DurationMinutes: durationMinutes}, nil
}

// ValidDuration reports whether minutes is a bookable session length.
func ValidDuration(minutes int) bool {
	for _, d := range models.Durations {
		if d == minutes {
			return true
		}
	}
	return false
}
