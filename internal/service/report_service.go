package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-tutoring-api/internal/booking"
	"github.com/noah-isme/sma-tutoring-api/internal/dto"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
	"github.com/noah-isme/sma-tutoring-api/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type weeklyCountRepository interface {
	ListWeeklyCounts(ctx context.Context, groupID string) ([]models.WeeklyCount, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// SessionReport is the aggregated view of a group's sessions.
type SessionReport struct {
	GroupID     string                `json:"group_id"`
	RangeStart  int                   `json:"range_start"`
	RangeEnd    int                   `json:"range_end"`
	Granularity models.Granularity    `json:"granularity"`
	Categories  []models.Category     `json:"categories"`
	Buckets     []models.ReportBucket `json:"buckets"`
}

// ReportFile is a rendered export ready to stream.
type ReportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ReportServiceConfig tunes ReportService.
type ReportServiceConfig struct {
	ExportEnabled bool
}

// ReportService aggregates weekly session counts into chartable buckets.
type ReportService struct {
	repo      weeklyCountRepository
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ReportServiceConfig
}

// NewReportService builds the service. Nil renderers default to the pkg/export ones.
func NewReportService(repo weeklyCountRepository, cfg ReportServiceConfig, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{
		repo:      repo,
		csv:       csv,
		pdf:       pdf,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Sessions loads the group's weekly counts and folds them into buckets.
func (s *ReportService) Sessions(ctx context.Context, auth models.AuthContext, groupID string, query dto.SessionReportQuery) (*SessionReport, error) {
	if !auth.Is(models.RoleTutor, models.RoleCounselor, models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "reports are not available for this role")
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group id is required")
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report query")
	}
	granularity, err := models.ParseGranularity(query.Granularity)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid granularity")
	}
	categories, err := parseCategories(query.Categories)
	if err != nil {
		return nil, err
	}

	ctx = models.ContextWithAuth(ctx, auth)
	start := time.Now()
	counts, err := s.repo.ListWeeklyCounts(ctx, groupID)
	s.metrics.ObserveStoreCall("list_weekly_counts", time.Since(start), err)
	if err != nil {
		s.logger.Warn("list weekly counts failed", zap.String("group_id", groupID), zap.Error(err))
		return nil, storeError(err, "failed to load session counts")
	}

	first, last := weekBounds(counts)
	rangeStart, rangeEnd := first, last
	if query.From != nil {
		rangeStart = *query.From
	}
	if query.To != nil {
		rangeEnd = *query.To
	}
	if query.From != nil && query.To != nil && rangeStart > rangeEnd {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must not be after to")
	}

	visible := categories
	if len(visible) == 0 {
		visible = models.Categories
	}

	return &SessionReport{
		GroupID:     groupID,
		RangeStart:  rangeStart,
		RangeEnd:    rangeEnd,
		Granularity: granularity,
		Categories:  visible,
		Buckets:     booking.Aggregate(counts, rangeStart, rangeEnd, granularity, categories...),
	}, nil
}

// Export renders the same buckets as Sessions into a CSV or PDF file.
func (s *ReportService) Export(ctx context.Context, auth models.AuthContext, groupID string, query dto.SessionReportQuery) (*ReportFile, error) {
	if !s.cfg.ExportEnabled {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "report export is disabled")
	}
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = FormatCSV
	}
	query.Format = format

	report, err := s.Sessions(ctx, auth, groupID, query)
	if err != nil {
		return nil, err
	}
	dataset := reportDataset(report)
	base := fmt.Sprintf("sessions-%s-%s", report.GroupID, report.Granularity)

	var file ReportFile
	switch format {
	case FormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		file = ReportFile{Filename: base + ".csv", ContentType: "text/csv", Payload: payload}
	case FormatPDF:
		title := fmt.Sprintf("Sessions %s weeks %d-%d", report.GroupID, report.RangeStart, report.RangeEnd)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		file = ReportFile{Filename: base + ".pdf", ContentType: "application/pdf", Payload: payload}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	s.logger.Info("session report exported",
		zap.String("group_id", report.GroupID),
		zap.String("format", format),
		zap.Int("buckets", len(report.Buckets)),
	)
	return &file, nil
}

func reportDataset(report *SessionReport) export.Dataset {
	headers := make([]string, 0, len(report.Categories)+2)
	headers = append(headers, "period")
	for _, category := range report.Categories {
		headers = append(headers, string(category))
	}
	headers = append(headers, "total")

	rows := make([]map[string]string, 0, len(report.Buckets))
	for _, bucket := range report.Buckets {
		row := map[string]string{"period": bucket.Label}
		total := 0
		for _, category := range report.Categories {
			n := bucket.Counts[category]
			total += n
			row[string(category)] = strconv.Itoa(n)
		}
		row["total"] = strconv.Itoa(total)
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// parseCategories splits a comma separated filter; unknown names are rejected.
func parseCategories(raw string) ([]models.Category, error) {
	var categories []models.Category
	seen := make(map[models.Category]bool)
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		category := models.Category(name)
		if !category.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown category %q", name))
		}
		if seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	return categories, nil
}

// weekBounds returns the first and last week with data, or 0, 0 when there is none.
func weekBounds(counts []models.WeeklyCount) (int, int) {
	if len(counts) == 0 {
		return 0, 0
	}
	first, last := counts[0].WeekNumber, counts[0].WeekNumber
	for _, week := range counts[1:] {
		if week.WeekNumber < first {
			first = week.WeekNumber
		}
		if week.WeekNumber > last {
			last = week.WeekNumber
		}
	}
	return first, last
}
