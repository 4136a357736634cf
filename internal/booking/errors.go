// Package booking holds the rules that decide which advisory sessions may be booked
// and how session counts roll up into report buckets. Everything here is pure; the
// service layer owns persistence and logging.
package booking

import (
	"net/http"

	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
)

// Slot validation failures. The caller re-prompts the user.
var (
	ErrOutOfRange           = appErrors.New("SLOT_OUT_OF_RANGE", http.StatusUnprocessableEntity, "date must be between tomorrow and the booking horizon")
	ErrWeekend              = appErrors.New("SLOT_WEEKEND", http.StatusUnprocessableEntity, "sessions cannot be booked on weekends")
	ErrOutsideBusinessHours = appErrors.New("SLOT_OUTSIDE_BUSINESS_HOURS", http.StatusUnprocessableEntity, "start time must be between 07:00 and 18:00")
	ErrInvalidDuration      = appErrors.New("SLOT_INVALID_DURATION", http.StatusUnprocessableEntity, "duration must be 15, 30, 45 or 60 minutes")
	ErrEndsAfterClosing     = appErrors.New("SLOT_ENDS_AFTER_CLOSING", http.StatusUnprocessableEntity, "session must end by 18:00")
)

// Participant resolution failures. These describe missing data, not bad input, and are not retried.
var (
	ErrNoTutorAssigned     = appErrors.New("ROLE_NO_TUTOR_ASSIGNED", http.StatusUnprocessableEntity, "no tutor has been assigned to this student")
	ErrNoCounselorSelected = appErrors.New("ROLE_NO_COUNSELOR_SELECTED", http.StatusUnprocessableEntity, "a counselor must be selected")
	ErrUnknownCounselor    = appErrors.New("ROLE_UNKNOWN_COUNSELOR", http.StatusUnprocessableEntity, "selected user is not a counselor")
	ErrNoStudentSelected   = appErrors.New("ROLE_NO_STUDENT_SELECTED", http.StatusUnprocessableEntity, "a student must be selected")
	ErrStudentNotAssigned  = appErrors.New("ROLE_STUDENT_NOT_ASSIGNED", http.StatusForbidden, "student is not assigned to this tutor")
	ErrInvalidModeForRole  = appErrors.New("ROLE_INVALID_MODE", http.StatusUnprocessableEntity, "booking mode is not available for this role")
	ErrInvalidCategory     = appErrors.New("ROLE_INVALID_CATEGORY", http.StatusUnprocessableEntity, "unknown session category")
)
