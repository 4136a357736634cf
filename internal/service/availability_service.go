package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-tutoring-api/internal/booking"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
)

type availabilityRepository interface {
	ListAvailability(ctx context.Context, studentID string) ([]models.AvailabilityEntry, error)
}

// AvailabilityService projects a student's declared free windows into a weekly schedule.
type AvailabilityService struct {
	repo    availabilityRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAvailabilityService builds the service.
func NewAvailabilityService(repo availabilityRepository, metrics *MetricsService, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, metrics: metrics, logger: logger}
}

// StudentSchedule returns the weekly schedule of a student. Students may only read their own.
func (s *AvailabilityService) StudentSchedule(ctx context.Context, auth models.AuthContext, studentID string) (*models.Schedule, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if auth.Role == models.RoleStudent && auth.UserID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students can only view their own availability")
	}

	ctx = models.ContextWithAuth(ctx, auth)
	start := time.Now()
	entries, err := s.repo.ListAvailability(ctx, studentID)
	s.metrics.ObserveStoreCall("list_availability", time.Since(start), err)
	if err != nil {
		s.logger.Warn("list availability failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, storeError(err, "failed to load availability")
	}

	schedule := booking.ProjectAvailability(studentID, entries)
	return &schedule, nil
}
