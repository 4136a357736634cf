package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-tutoring-api/internal/booking"
	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
)

const uniqueViolation = "23505"

const sessionColumns = `s.id, s.student_id, s.counterpart_id, s.group_id, s.date, s.start_time, s.end_time, s.category, s.status, s.created_at`

// SessionRepository persists sessions in PostgreSQL.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession inserts a draft and returns the stored row.
func (r *SessionRepository) CreateSession(ctx context.Context, draft models.SessionDraft) (*models.Session, error) {
	session := models.Session{
		ID:           uuid.NewString(),
		SessionDraft: draft,
		CreatedAt:    time.Now().UTC(),
	}
	const query = `INSERT INTO sessions (id, student_id, counterpart_id, group_id, date, start_time, end_time, category, status, created_at)
		VALUES (:id, :student_id, :counterpart_id, :group_id, :date, :start_time, :end_time, :category, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, appErrors.Clone(appErrors.ErrConflict, "session slot already taken")
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session by ID.
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session rows: %w", err)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	return nil
}

// ListSessionsForParticipant returns the participant's sessions ordered by date and start.
func (r *SessionRepository) ListSessionsForParticipant(ctx context.Context, participantID string, role models.Role) ([]models.Session, error) {
	where, args := participantClause(participantID, role)
	query := `SELECT ` + sessionColumns + ` FROM sessions s` + where + ` ORDER BY s.date, s.start_time`
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListSessionsEnriched joins participant names in the same query.
func (r *SessionRepository) ListSessionsEnriched(ctx context.Context, participantID string, role models.Role) ([]models.EnrichedSession, error) {
	where, args := participantClause(participantID, role)
	query := `SELECT ` + sessionColumns + `,
		COALESCE(st.full_name, '') AS student_name,
		COALESCE(cp.full_name, '') AS counterpart_name,
		COALESCE(cp.role, '') AS counterpart_role
		FROM sessions s
		LEFT JOIN users st ON st.id = s.student_id
		LEFT JOIN users cp ON cp.id = s.counterpart_id` + where + ` ORDER BY s.date, s.start_time`
	var sessions []models.EnrichedSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list enriched sessions: %w", err)
	}
	return sessions, nil
}

// ListAvailability returns a student's declared free windows.
func (r *SessionRepository) ListAvailability(ctx context.Context, studentID string) ([]models.AvailabilityEntry, error) {
	const query = `SELECT weekday, start_time, end_time FROM student_availability WHERE student_id = $1 ORDER BY weekday, start_time`
	var entries []models.AvailabilityEntry
	if err := r.db.SelectContext(ctx, &entries, query, studentID); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return entries, nil
}

// ListWeeklyCounts groups a group's sessions by calendar week and category. Week 1 is the
// group's earliest week with sessions.
func (r *SessionRepository) ListWeeklyCounts(ctx context.Context, groupID string) ([]models.WeeklyCount, error) {
	const query = `SELECT date_trunc('week', date)::date AS week_start, category, COUNT(*)::int AS total
		FROM sessions WHERE group_id = $1 GROUP BY 1, 2 ORDER BY 1, 2`
	var rows []models.WeeklyCountRow
	if err := r.db.SelectContext(ctx, &rows, query, groupID); err != nil {
		return nil, fmt.Errorf("list weekly counts: %w", err)
	}
	return booking.WeeklyCountsFromRows(rows), nil
}

func participantClause(participantID string, role models.Role) (string, []interface{}) {
	switch role {
	case models.RoleStudent:
		return ` WHERE s.student_id = $1`, []interface{}{participantID}
	case models.RoleTutor, models.RoleCounselor:
		return ` WHERE s.counterpart_id = $1`, []interface{}{participantID}
	default:
		return ``, nil
	}
}
