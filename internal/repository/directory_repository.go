package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
)

// DirectoryRepository reads tutor assignments and the counselor directory from PostgreSQL.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs the repository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// AssignedTutor returns the student's tutor, or "" when none is assigned.
func (r *DirectoryRepository) AssignedTutor(ctx context.Context, studentID string) (string, error) {
	var tutorID string
	err := r.db.GetContext(ctx, &tutorID, `SELECT tutor_id FROM tutor_assignments WHERE student_id = $1`, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find tutor assignment: %w", err)
	}
	return tutorID, nil
}

// ListCounselors returns every counselor ordered by name.
func (r *DirectoryRepository) ListCounselors(ctx context.Context) ([]models.Participant, error) {
	const query = `SELECT id, full_name, email, role FROM users WHERE role = $1 ORDER BY full_name`
	var counselors []models.Participant
	if err := r.db.SelectContext(ctx, &counselors, query, models.RoleCounselor); err != nil {
		return nil, fmt.Errorf("list counselors: %w", err)
	}
	return counselors, nil
}
