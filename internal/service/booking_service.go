package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-tutoring-api/internal/booking"
	"github.com/noah-isme/sma-tutoring-api/internal/dto"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
)

// SessionRepository persists and lists sessions. Implemented by the remote API client
// and the Postgres adapter.
type SessionRepository interface {
	CreateSession(ctx context.Context, draft models.SessionDraft) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessionsForParticipant(ctx context.Context, participantID string, role models.Role) ([]models.Session, error)
	ListSessionsEnriched(ctx context.Context, participantID string, role models.Role) ([]models.EnrichedSession, error)
	ListAvailability(ctx context.Context, studentID string) ([]models.AvailabilityEntry, error)
	ListWeeklyCounts(ctx context.Context, groupID string) ([]models.WeeklyCount, error)
}

type sessionStore interface {
	CreateSession(ctx context.Context, draft models.SessionDraft) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessionsForParticipant(ctx context.Context, participantID string, role models.Role) ([]models.Session, error)
	ListSessionsEnriched(ctx context.Context, participantID string, role models.Role) ([]models.EnrichedSession, error)
}

// BookingService validates, resolves and persists advisory sessions.
type BookingService struct {
	repo      sessionStore
	slots     *booking.SlotValidator
	resolver  *booking.RoleResolver
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewBookingService builds the service.
func NewBookingService(repo sessionStore, slots *booking.SlotValidator, resolver *booking.RoleResolver, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *BookingService {
	if slots == nil {
		slots = booking.NewSlotValidator(booking.DefaultSlotPolicy(), nil, nil)
	}
	if resolver == nil {
		resolver = booking.NewRoleResolver(nil)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		repo:      repo,
		slots:     slots,
		resolver:  resolver,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// ValidateSlot checks a candidate slot and returns it with the derived end time.
func (s *BookingService) ValidateSlot(req dto.SlotRequest) (*booking.Slot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	start, err := models.ParseClock(req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	slot, err := s.slots.Validate(date, start, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Book validates the slot, resolves both parties and creates a pending session.
func (s *BookingService) Book(ctx context.Context, auth models.AuthContext, req dto.BookSessionRequest) (*models.Session, error) {
	requested := strings.ToLower(strings.TrimSpace(req.Category))

	slot, err := s.ValidateSlot(req.SlotRequest)
	if err != nil {
		s.metrics.RecordBooking(requested, OutcomeRejected)
		return nil, err
	}

	ctx = models.ContextWithAuth(ctx, auth)
	res, err := s.resolver.Resolve(ctx, auth, models.BookingMode(strings.TrimSpace(req.Mode)), booking.Selection{
		StudentID:   req.StudentID,
		CounselorID: req.CounselorID,
		Category:    models.Category(requested),
	})
	if err != nil {
		outcome := OutcomeRejected
		if appErrors.FromError(err).Status >= http.StatusInternalServerError {
			outcome = OutcomeFailed
		}
		s.metrics.RecordBooking(requested, outcome)
		return nil, storeError(err, "failed to resolve session participants")
	}

	draft := booking.BuildSession(*slot, res, req.GroupID)

	start := time.Now()
	session, err := s.repo.CreateSession(ctx, draft)
	s.metrics.ObserveStoreCall("create_session", time.Since(start), err)
	if err != nil {
		s.metrics.RecordBooking(string(draft.Category), OutcomeFailed)
		s.logger.Warn("create session failed",
			zap.String("user_id", auth.UserID),
			zap.String("category", string(draft.Category)),
			zap.Error(err),
		)
		return nil, storeError(err, "failed to create session")
	}

	s.metrics.RecordBooking(string(session.Category), OutcomeBooked)
	s.logger.Info("session booked",
		zap.String("session_id", session.ID),
		zap.String("student_id", session.StudentID),
		zap.String("counterpart_id", session.CounterpartID),
		zap.String("category", string(session.Category)),
		zap.String("date", session.Date.String()),
	)
	return session, nil
}

// Delete removes a session. Students may only delete their own sessions.
func (s *BookingService) Delete(ctx context.Context, auth models.AuthContext, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "session id is required")
	}
	ctx = models.ContextWithAuth(ctx, auth)

	if auth.Role == models.RoleStudent {
		start := time.Now()
		sessions, err := s.repo.ListSessionsForParticipant(ctx, auth.UserID, auth.Role)
		s.metrics.ObserveStoreCall("list_sessions", time.Since(start), err)
		if err != nil {
			return storeError(err, "failed to load sessions")
		}
		owned := false
		for _, session := range sessions {
			if session.ID == id && session.StudentID == auth.UserID {
				owned = true
				break
			}
		}
		if !owned {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
	}

	start := time.Now()
	err := s.repo.DeleteSession(ctx, id)
	s.metrics.ObserveStoreCall("delete_session", time.Since(start), err)
	if err != nil {
		return storeError(err, "failed to delete session")
	}
	s.logger.Info("session deleted", zap.String("session_id", id), zap.String("user_id", auth.UserID))
	return nil
}

// ListForCaller returns the caller's sessions with participant names in one store call.
func (s *BookingService) ListForCaller(ctx context.Context, auth models.AuthContext) ([]models.EnrichedSession, error) {
	ctx = models.ContextWithAuth(ctx, auth)
	start := time.Now()
	sessions, err := s.repo.ListSessionsEnriched(ctx, auth.UserID, auth.Role)
	s.metrics.ObserveStoreCall("list_sessions_enriched", time.Since(start), err)
	if err != nil {
		return nil, storeError(err, "failed to list sessions")
	}
	if sessions == nil {
		sessions = []models.EnrichedSession{}
	}
	return sessions, nil
}

// storeError passes typed errors through and wraps anything else as internal.
func storeError(err error, message string) error {
	if err == nil {
		return nil
	}
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
