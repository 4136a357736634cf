package models

import "time"

// Category is the declared reason for an advisory session.
type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryAcademicIssue Category = "academic-issue"
	CategoryPersonalIssue Category = "personal-issue"
	CategoryFollowUp      Category = "follow-up"
	CategoryTutorChange   Category = "tutor-change"
	CategoryCounseling    Category = "counseling"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryGeneral,
	CategoryAcademicIssue,
	CategoryPersonalIssue,
	CategoryFollowUp,
	CategoryTutorChange,
	CategoryCounseling,
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SessionStatus tracks whether a session took place.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusCompleted SessionStatus = "completed"
)

// BookingMode is how a student chooses the other party.
type BookingMode string

const (
	ModeWithTutor     BookingMode = "withTutor"
	ModeWithCounselor BookingMode = "withCounselor"
)

// Durations enumerates the bookable session lengths in minutes.
var Durations = []int{15, 30, 45, 60}

// SessionDraft is a session ready to be persisted; the store assigns its ID.
type SessionDraft struct {
	StudentID     string        `db:"student_id" json:"student_id"`
	CounterpartID string        `db:"counterpart_id" json:"counterpart_id"`
	GroupID       *string       `db:"group_id" json:"group_id,omitempty"`
	Date          Date          `db:"date" json:"date"`
	StartTime     Clock         `db:"start_time" json:"start_time"`
	EndTime       Clock         `db:"end_time" json:"end_time"`
	Category      Category      `db:"category" json:"category"`
	Status        SessionStatus `db:"status" json:"status"`
}

// Session is a scheduled advisory meeting between a student and a tutor or counselor.
type Session struct {
	ID string `db:"id" json:"id"`
	SessionDraft
	CreatedAt time.Time `db:"created_at" json:"created_at,omitempty"`
}

// EnrichedSession carries participant names resolved by the store in one call.
type EnrichedSession struct {
	Session
	StudentName     string `db:"student_name" json:"student_name"`
	CounterpartName string `db:"counterpart_name" json:"counterpart_name"`
	CounterpartRole Role   `db:"counterpart_role" json:"counterpart_role"`
}
