package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
)

func TestDirectoryRepositoryAssignedTutor(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("SELECT tutor_id FROM tutor_assignments").
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"tutor_id"}).AddRow("tutor-1"))
	mock.ExpectQuery("SELECT tutor_id FROM tutor_assignments").
		WithArgs("student-2").
		WillReturnError(sql.ErrNoRows)

	tutorID, err := repo.AssignedTutor(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, "tutor-1", tutorID)

	tutorID, err = repo.AssignedTutor(context.Background(), "student-2")
	require.NoError(t, err)
	assert.Empty(t, tutorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepositoryListCounselors(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewDirectoryRepository(db)

	mock.ExpectQuery("SELECT id, full_name, email, role FROM users").
		WithArgs("counselor").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "role"}).
			AddRow("c-1", "Ana Ruiz", "ana@example.org", "counselor").
			AddRow("c-2", "Luis Vega", "", "counselor"))

	counselors, err := repo.ListCounselors(context.Background())
	require.NoError(t, err)
	require.Len(t, counselors, 2)
	assert.Equal(t, "Ana Ruiz", counselors[0].FullName)
	assert.Equal(t, models.RoleCounselor, counselors[1].Role)

	mock.ExpectQuery("SELECT id, full_name, email, role FROM users").WillReturnError(errors.New("connection reset"))
	_, err = repo.ListCounselors(context.Background())
	assert.ErrorContains(t, err, "list counselors")
	assert.NoError(t, mock.ExpectationsWereMet())
}
