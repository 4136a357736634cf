package booking

import (
	"strings"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
)

// BuildSession assembles a pending session from a validated slot and resolved parties.
// The store assigns the ID.
func BuildSession(slot Slot, res Resolution, groupID string) models.SessionDraft {
	draft := models.SessionDraft{
		StudentID:     res.StudentID,
		CounterpartID: res.AdvisorID,
		Date:          slot.Date,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		Category:      res.Category,
		Status:        models.SessionStatusPending,
	}
	if g := strings.TrimSpace(groupID); g != "" {
		draft.GroupID = &g
	}
	return draft
}
