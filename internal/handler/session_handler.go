package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-tutoring-api/internal/booking"
	"github.com/noah-isme/sma-tutoring-api/internal/dto"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
	"github.com/noah-isme/sma-tutoring-api/pkg/response"
)

type sessionService interface {
	ValidateSlot(req dto.SlotRequest) (*booking.Slot, error)
	Book(ctx context.Context, auth models.AuthContext, req dto.BookSessionRequest) (*models.Session, error)
	Delete(ctx context.Context, auth models.AuthContext, id string) error
	ListForCaller(ctx context.Context, auth models.AuthContext) ([]models.EnrichedSession, error)
}

// SessionHandler exposes booking endpoints.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler builds a new handler.
func NewSessionHandler(service sessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Book godoc
// @Summary Book an advisory session
// @Description Students pick mode withTutor or withCounselor; tutors and counselors pick the student.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.BookSessionRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Book(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		return
	}
	var req dto.BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}
	session, err := h.service.Book(c.Request.Context(), auth, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Validate godoc
// @Summary Check a candidate slot
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.SlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sessions/validate [post]
func (h *SessionHandler) Validate(c *gin.Context) {
	var req dto.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	slot, err := h.service.ValidateSlot(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// List godoc
// @Summary List the caller's sessions
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		return
	}
	sessions, err := h.service.ListForCaller(c.Request.Context(), auth)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, map[string]interface{}{"total": len(sessions)})
}

// Delete godoc
// @Summary Delete a session
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), auth, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
