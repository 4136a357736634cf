package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-tutoring-api/internal/booking"
	"github.com/noah-isme/sma-tutoring-api/internal/dto"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
)

type sessionRepoStub struct {
	created      []models.SessionDraft
	createErr    error
	deleted      []string
	deleteErr    error
	sessions     []models.Session
	listErr      error
	enriched     []models.EnrichedSession
	availability []models.AvailabilityEntry
	weekly       []models.WeeklyCount
	lastAuth     models.AuthContext
	listCalls    int
}

func (s *sessionRepoStub) remember(ctx context.Context) {
	if auth, ok := models.AuthFromContext(ctx); ok {
		s.lastAuth = auth
	}
}

func (s *sessionRepoStub) CreateSession(ctx context.Context, draft models.SessionDraft) (*models.Session, error) {
	s.remember(ctx)
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, draft)
	return &models.Session{ID: "session-1", SessionDraft: draft}, nil
}

func (s *sessionRepoStub) DeleteSession(ctx context.Context, id string) error {
	s.remember(ctx)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *sessionRepoStub) ListSessionsForParticipant(ctx context.Context, participantID string, role models.Role) ([]models.Session, error) {
	s.remember(ctx)
	s.listCalls++
	return s.sessions, s.listErr
}

func (s *sessionRepoStub) ListSessionsEnriched(ctx context.Context, participantID string, role models.Role) ([]models.EnrichedSession, error) {
	s.remember(ctx)
	return s.enriched, s.listErr
}

func (s *sessionRepoStub) ListAvailability(ctx context.Context, studentID string) ([]models.AvailabilityEntry, error) {
	s.remember(ctx)
	return s.availability, s.listErr
}

func (s *sessionRepoStub) ListWeeklyCounts(ctx context.Context, groupID string) ([]models.WeeklyCount, error) {
	s.remember(ctx)
	return s.weekly, s.listErr
}

var _ SessionRepository = (*sessionRepoStub)(nil)

type tutorLookupStub map[string]string

func (t tutorLookupStub) AssignedTutor(ctx context.Context, studentID string) (string, error) {
	return t[studentID], nil
}

func (t tutorLookupStub) ListCounselors(ctx context.Context) ([]models.Participant, error) {
	return []models.Participant{{ID: "counselor-1", FullName: "Ana Ruiz", Role: models.RoleCounselor}}, nil
}

// Monday 3 November 2025.
func fixedNow() time.Time {
	return time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)
}

func newBookingServiceForTest(repo *sessionRepoStub, tutors tutorLookupStub, metrics *MetricsService) *BookingService {
	slots := booking.NewSlotValidator(booking.DefaultSlotPolicy(), time.UTC, fixedNow)
	resolver := booking.NewRoleResolver(tutors)
	return NewBookingService(repo, slots, resolver, validator.New(), metrics, zap.NewNop())
}

func slotRequest(date, start string, minutes int) dto.SlotRequest {
	return dto.SlotRequest{Date: date, StartTime: start, DurationMinutes: minutes}
}

func TestBookingServiceBookStudentWithTutor(t *testing.T) {
	repo := &sessionRepoStub{}
	metrics := NewMetricsService()
	svc := newBookingServiceForTest(repo, tutorLookupStub{"student-1": "tutor-1"}, metrics)
	auth := models.AuthContext{UserID: "student-1", Role: models.RoleStudent, Token: "token-abc"}

	session, err := svc.Book(context.Background(), auth, dto.BookSessionRequest{
		SlotRequest: slotRequest("2025-11-10", "09:00", 45),
		Mode:        string(models.ModeWithTutor),
		Category:    "personal-issue",
		GroupID:     " group-7 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "session-1", session.ID)

	require.Len(t, repo.created, 1)
	draft := repo.created[0]
	assert.Equal(t, "student-1", draft.StudentID)
	assert.Equal(t, "tutor-1", draft.CounterpartID)
	assert.Equal(t, models.CategoryFollowUp, draft.Category)
	assert.Equal(t, models.SessionStatusPending, draft.Status)
	assert.Equal(t, "09:45", draft.EndTime.String())
	require.NotNil(t, draft.GroupID)
	assert.Equal(t, "group-7", *draft.GroupID)
	assert.Equal(t, "token-abc", repo.lastAuth.Token)

	assert.Equal(t, 1.0, metricValue(t, metrics, "session_bookings_total", map[string]string{"category": "follow-up", "outcome": OutcomeBooked}))
}

func TestBookingServiceBookWithoutTutorAssignment(t *testing.T) {
	repo := &sessionRepoStub{}
	svc := newBookingServiceForTest(repo, tutorLookupStub{}, nil)
	auth := models.AuthContext{UserID: "student-1", Role: models.RoleStudent}

	_, err := svc.Book(context.Background(), auth, dto.BookSessionRequest{
		SlotRequest: slotRequest("2025-11-10", "09:00", 30),
		Mode:        string(models.ModeWithTutor),
	})
	require.ErrorIs(t, err, booking.ErrNoTutorAssigned)
	assert.Empty(t, repo.created)
}

func TestBookingServiceBookWithCounselorChecksDirectory(t *testing.T) {
	repo := &sessionRepoStub{}
	metrics := NewMetricsService()
	svc := newBookingServiceForTest(repo, tutorLookupStub{}, metrics)
	auth := models.AuthContext{UserID: "student-1", Role: models.RoleStudent}
	req := dto.BookSessionRequest{
		SlotRequest: slotRequest("2025-11-10", "10:00", 60),
		Mode:        string(models.ModeWithCounselor),
		CounselorID: "student-2",
	}

	_, err := svc.Book(context.Background(), auth, req)
	require.ErrorIs(t, err, booking.ErrUnknownCounselor)
	assert.Empty(t, repo.created)
	assert.Equal(t, 1.0, metricValue(t, metrics, "session_bookings_total", map[string]string{"category": "unknown", "outcome": OutcomeRejected}))

	req.CounselorID = "counselor-1"
	session, err := svc.Book(context.Background(), auth, req)
	require.NoError(t, err)
	assert.Equal(t, "counselor-1", session.CounterpartID)
	assert.Equal(t, models.CategoryCounseling, session.Category)
}

func TestBookingServiceBookRejectsInvalidSlots(t *testing.T) {
	auth := models.AuthContext{UserID: "counselor-1", Role: models.RoleCounselor}
	cases := []struct {
		name string
		req  dto.SlotRequest
		want error
	}{
		{name: "weekend", req: slotRequest("2025-11-08", "09:00", 30), want: booking.ErrWeekend},
		{name: "too early", req: slotRequest("2025-11-10", "06:30", 30), want: booking.ErrOutsideBusinessHours},
		{name: "today", req: slotRequest("2025-11-03", "11:00", 30), want: booking.ErrOutOfRange},
		{name: "odd duration", req: slotRequest("2025-11-10", "09:00", 20), want: booking.ErrInvalidDuration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &sessionRepoStub{}
			svc := newBookingServiceForTest(repo, nil, nil)
			_, err := svc.Book(context.Background(), auth, dto.BookSessionRequest{SlotRequest: tc.req, StudentID: "student-1"})
			require.ErrorIs(t, err, tc.want)
			assert.Empty(t, repo.created)
		})
	}
}

func TestBookingServiceValidateSlotMalformedInput(t *testing.T) {
	svc := newBookingServiceForTest(&sessionRepoStub{}, nil, nil)

	_, err := svc.ValidateSlot(slotRequest("10/11/2025", "09:00", 30))
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))

	_, err = svc.ValidateSlot(slotRequest("2025-11-10", "nine", 30))
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))

	slot, err := svc.ValidateSlot(slotRequest("2025-11-10", "17:30", 30))
	require.NoError(t, err)
	assert.Equal(t, "18:00", slot.EndTime.String())
}

func TestBookingServiceBookStoreErrors(t *testing.T) {
	auth := models.AuthContext{UserID: "counselor-1", Role: models.RoleCounselor}
	req := dto.BookSessionRequest{SlotRequest: slotRequest("2025-11-10", "09:00", 30), StudentID: "student-1"}

	repo := &sessionRepoStub{createErr: appErrors.Clone(appErrors.ErrNetwork, "")}
	svc := newBookingServiceForTest(repo, nil, nil)
	_, err := svc.Book(context.Background(), auth, req)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNetwork.Code))

	repo = &sessionRepoStub{createErr: errors.New("boom")}
	svc = newBookingServiceForTest(repo, nil, nil)
	_, err = svc.Book(context.Background(), auth, req)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrInternal.Code))
}

func TestBookingServiceDeleteChecksStudentOwnership(t *testing.T) {
	draft := models.SessionDraft{StudentID: "student-1", CounterpartID: "tutor-1"}
	repo := &sessionRepoStub{sessions: []models.Session{{ID: "session-1", SessionDraft: draft}}}
	svc := newBookingServiceForTest(repo, nil, nil)

	stranger := models.AuthContext{UserID: "student-2", Role: models.RoleStudent}
	err := svc.Delete(context.Background(), stranger, "session-1")
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFound.Code))
	assert.Empty(t, repo.deleted)

	owner := models.AuthContext{UserID: "student-1", Role: models.RoleStudent}
	require.NoError(t, svc.Delete(context.Background(), owner, "session-1"))
	assert.Equal(t, []string{"session-1"}, repo.deleted)
}

func TestBookingServiceDeleteByTutorSkipsOwnershipLookup(t *testing.T) {
	repo := &sessionRepoStub{}
	svc := newBookingServiceForTest(repo, nil, nil)

	tutor := models.AuthContext{UserID: "tutor-1", Role: models.RoleTutor}
	require.NoError(t, svc.Delete(context.Background(), tutor, "session-9"))
	assert.Equal(t, 0, repo.listCalls)
	assert.Equal(t, []string{"session-9"}, repo.deleted)

	err := svc.Delete(context.Background(), tutor, "  ")
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))
}

func TestBookingServiceListForCaller(t *testing.T) {
	repo := &sessionRepoStub{}
	svc := newBookingServiceForTest(repo, nil, nil)
	auth := models.AuthContext{UserID: "tutor-1", Role: models.RoleTutor, Token: "t"}

	sessions, err := svc.ListForCaller(context.Background(), auth)
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)

	repo.enriched = []models.EnrichedSession{{Session: models.Session{ID: "s-1"}, StudentName: "Ana"}}
	sessions, err = svc.ListForCaller(context.Background(), auth)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Ana", sessions[0].StudentName)
}
