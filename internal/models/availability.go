package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is a day of the week; it encodes as a lowercase English name.
type Weekday time.Weekday

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"miércoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
	"domingo":   time.Sunday,
}

// ParseWeekday accepts English or Spanish names and ISO numbers (1 = Monday, 7 = Sunday).
func ParseWeekday(raw string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if day, ok := weekdayNames[key]; ok {
		return Weekday(day), nil
	}
	if n, err := strconv.Atoi(key); err == nil {
		return weekdayFromISO(n)
	}
	return 0, fmt.Errorf("unknown weekday %q", raw)
}

func weekdayFromISO(n int) (Weekday, error) {
	if n < 1 || n > 7 {
		return 0, fmt.Errorf("weekday number %d out of range", n)
	}
	return Weekday(time.Weekday(n % 7)), nil
}

// ISO returns the ISO-8601 day number.
func (w Weekday) ISO() int {
	if time.Weekday(w) == time.Sunday {
		return 7
	}
	return int(w)
}

// String returns the lowercase English day name.
func (w Weekday) String() string {
	return strings.ToLower(time.Weekday(w).String())
}

// MarshalJSON encodes the day name.
func (w Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

// UnmarshalJSON accepts a day name or an ISO number.
func (w *Weekday) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		day, err := weekdayFromISO(n)
		if err != nil {
			return err
		}
		*w = day
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("weekday must be a name or number: %w", err)
	}
	day, err := ParseWeekday(raw)
	if err != nil {
		return err
	}
	*w = day
	return nil
}

// Scan implements sql.Scanner for ISO day-number or name columns.
func (w *Weekday) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		day, err := weekdayFromISO(int(v))
		if err != nil {
			return err
		}
		*w = day
		return nil
	case []byte:
		day, err := ParseWeekday(string(v))
		if err != nil {
			return err
		}
		*w = day
		return nil
	case string:
		day, err := ParseWeekday(v)
		if err != nil {
			return err
		}
		*w = day
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Weekday", src)
	}
}

// Value implements driver.Valuer.
func (w Weekday) Value() (driver.Value, error) {
	return int64(w.ISO()), nil
}

// AvailabilityEntry is a recurring window a student has declared as free.
type AvailabilityEntry struct {
	Weekday   Weekday `db:"weekday" json:"weekday"`
	StartTime Clock   `db:"start_time" json:"start_time"`
	EndTime   Clock   `db:"end_time" json:"end_time"`
}

// AvailabilityList decodes either a JSON array of entries or a single bare entry.
type AvailabilityList []AvailabilityEntry

// UnmarshalJSON normalises a bare object into a one-element list.
func (l *AvailabilityList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '{' {
		var single AvailabilityEntry
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*l = AvailabilityList{single}
		return nil
	}
	var many []AvailabilityEntry
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// DaySchedule is one weekday of a projected availability schedule.
type DaySchedule struct {
	Weekday Weekday             `json:"weekday"`
	Windows []AvailabilityEntry `json:"windows"`
	Message string              `json:"message,omitempty"`
}

// Schedule is the displayable form of a student's availability.
type Schedule struct {
	StudentID string        `json:"student_id,omitempty"`
	Days      []DaySchedule `json:"days"`
}
