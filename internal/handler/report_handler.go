package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-tutoring-api/internal/dto"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
	"github.com/noah-isme/sma-tutoring-api/internal/service"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
	"github.com/noah-isme/sma-tutoring-api/pkg/response"
)

type reportService interface {
	Sessions(ctx context.Context, auth models.AuthContext, groupID string, query dto.SessionReportQuery) (*service.SessionReport, error)
	Export(ctx context.Context, auth models.AuthContext, groupID string, query dto.SessionReportQuery) (*service.ReportFile, error)
}

// ReportHandler exposes group session reports.
type ReportHandler struct {
	service reportService
}

// NewReportHandler builds a new handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Sessions godoc
// @Summary Session counts per period for a group
// @Tags Reports
// @Produce json
// @Param id path string true "Group ID"
// @Param from query int false "First ISO week (defaults to first week with data)"
// @Param to query int false "Last ISO week (defaults to last week with data)"
// @Param granularity query string false "weekly, biweekly or monthly"
// @Param categories query string false "Comma separated category filter"
// @Success 200 {object} response.Envelope
// @Router /groups/{id}/reports/sessions [get]
func (h *ReportHandler) Sessions(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		return
	}
	query, ok := bindReportQuery(c)
	if !ok {
		return
	}
	report, err := h.service.Sessions(c.Request.Context(), auth, c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Download session counts as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Group ID"
// @Param format query string false "csv (default) or pdf"
// @Param from query int false "First ISO week"
// @Param to query int false "Last ISO week"
// @Param granularity query string false "weekly, biweekly or monthly"
// @Param categories query string false "Comma separated category filter"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /groups/{id}/reports/sessions/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	auth, ok := authFromContext(c)
	if !ok {
		return
	}
	query, ok := bindReportQuery(c)
	if !ok {
		return
	}
	file, err := h.service.Export(c.Request.Context(), auth, c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

func bindReportQuery(c *gin.Context) (dto.SessionReportQuery, bool) {
	var query dto.SessionReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report query"))
		return query, false
	}
	return query, true
}
