package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
	"github.com/noah-isme/sma-tutoring-api/pkg/response"
)

type availabilityService interface {
	StudentSchedule(ctx context.Context, auth models.AuthContext, studentID string) (*models.Schedule, error)
}

// AvailabilityHandler exposes student availability.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler builds a new handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Get godoc
// @Summary Weekly availability of a student
// @Tags Availability
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		return
	}
	schedule, err := h.service.StudentSchedule(c.Request.Context(), auth, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}
