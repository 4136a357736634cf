package dto

// SlotRequest is the date/time part of a booking form.
type SlotRequest struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" validate:"required"`
	DurationMinutes int    `json:"duration_minutes"`
}

// BookSessionRequest captures POST /sessions payload. Mode only matters for students;
// CounselorID applies to withCounselor bookings and StudentID to tutor or counselor callers.
type BookSessionRequest struct {
	SlotRequest
	Mode        string `json:"mode"`
	StudentID   string `json:"student_id"`
	CounselorID string `json:"counselor_id"`
	Category    string `json:"category"`
	GroupID     string `json:"group_id"`
}
