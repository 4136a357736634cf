package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-tutoring-api/internal/middleware"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
	"github.com/noah-isme/sma-tutoring-api/pkg/response"
)

type directoryService interface {
	Counselors(ctx context.Context, auth models.AuthContext) ([]models.Participant, bool, error)
}

// DirectoryHandler exposes the counselor directory.
type DirectoryHandler struct {
	service directoryService
}

// NewDirectoryHandler builds a new handler.
func NewDirectoryHandler(service directoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// Counselors godoc
// @Summary List counselors a student can book with
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /counselors [get]
func (h *DirectoryHandler) Counselors(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		return
	}
	counselors, hit, err := h.service.Counselors(c.Request.Context(), auth)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, counselors, middleware.ExtractMeta(c))
}
