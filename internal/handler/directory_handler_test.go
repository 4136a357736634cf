package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-tutoring-api/internal/middleware"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
)

type directoryServiceMock struct {
	counselors []models.Participant
	hit        bool
	err        error
}

func (m *directoryServiceMock) Counselors(ctx context.Context, auth models.AuthContext) ([]models.Participant, bool, error) {
	return m.counselors, m.hit, m.err
}

type availabilityServiceMock struct {
	schedule  *models.Schedule
	err       error
	studentID string
}

func (m *availabilityServiceMock) StudentSchedule(ctx context.Context, auth models.AuthContext, studentID string) (*models.Schedule, error) {
	m.studentID = studentID
	return m.schedule, m.err
}

func TestDirectoryHandlerCounselorsReportsCacheHit(t *testing.T) {
	handler := NewDirectoryHandler(&directoryServiceMock{
		counselors: []models.Participant{{ID: "c-1", FullName: "Laura Vega", Role: models.RoleCounselor}},
		hit:        true,
	})

	c, w := newTestContext(http.MethodGet, "/counselors", nil, &studentAuth)
	middleware.WithResponseMeta()(c)

	handler.Counselors(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Laura Vega")
	assert.Contains(t, w.Body.String(), `"cache_hit":true`)
}

func TestDirectoryHandlerCounselorsError(t *testing.T) {
	handler := NewDirectoryHandler(&directoryServiceMock{err: errors.New("boom")})

	c, w := newTestContext(http.MethodGet, "/counselors", nil, &studentAuth)
	handler.Counselors(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, c.Errors, 1)
}

func TestAvailabilityHandlerGet(t *testing.T) {
	mockSvc := &availabilityServiceMock{schedule: &models.Schedule{StudentID: "student-1", Days: []models.DaySchedule{}}}
	handler := NewAvailabilityHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/students/student-1/availability", nil, &studentAuth)
	c.Params = gin.Params{{Key: "id", Value: "student-1"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student-1", mockSvc.studentID)
}
