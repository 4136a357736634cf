package booking

import (
	"context"
	"strings"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
)

// Directory looks up tutor assignments and the counselors students may book with.
type Directory interface {
	// AssignedTutor returns the tutor ID for a student, or "" when none is assigned.
	AssignedTutor(ctx context.Context, studentID string) (string, error)
	ListCounselors(ctx context.Context) ([]models.Participant, error)
}

// Selection is what the requester picked in the booking form.
type Selection struct {
	StudentID   string          `json:"student_id"`
	CounselorID string          `json:"counselor_id"`
	Category    models.Category `json:"category"`
}

// Resolution names both parties of the session and its category.
type Resolution struct {
	// Counterpart is the other party from the requester's point of view.
	Counterpart string          `json:"counterpart_id"`
	StudentID   string          `json:"student_id"`
	AdvisorID   string          `json:"advisor_id"`
	Category    models.Category `json:"category"`
}

// RoleResolver decides who a session is with and what category it carries.
// Students never choose their category or, when booking with a tutor, the counterpart.
type RoleResolver struct {
	dir Directory
}

// NewRoleResolver constructs a resolver backed by dir. Without a directory no student has
// a tutor and no counselor can be chosen.
func NewRoleResolver(dir Directory) *RoleResolver {
	return &RoleResolver{dir: dir}
}

// Resolve applies the per-role booking rules.
func (r *RoleResolver) Resolve(ctx context.Context, auth models.AuthContext, mode models.BookingMode, sel Selection) (Resolution, error) {
	switch auth.Role {
	case models.RoleTutor:
		return r.resolveTutor(ctx, auth, sel)
	case models.RoleCounselor:
		studentID := strings.TrimSpace(sel.StudentID)
		if studentID == "" {
			return Resolution{}, ErrNoStudentSelected
		}
		return Resolution{
			Counterpart: studentID,
			StudentID:   studentID,
			AdvisorID:   auth.UserID,
			Category:    models.CategoryCounseling,
		}, nil
	case models.RoleStudent:
		return r.resolveStudent(ctx, auth, mode, sel)
	case models.RoleAdmin:
		return Resolution{}, ErrInvalidModeForRole
	default:
		return Resolution{}, ErrInvalidModeForRole
	}
}

func (r *RoleResolver) resolveTutor(ctx context.Context, auth models.AuthContext, sel Selection) (Resolution, error) {
	studentID := strings.TrimSpace(sel.StudentID)
	if studentID == "" {
		return Resolution{}, ErrNoStudentSelected
	}
	category := sel.Category
	if category == "" {
		category = models.CategoryGeneral
	}
	if !category.Valid() {
		return Resolution{}, ErrInvalidCategory
	}
	tutorID, err := r.assignedTutor(ctx, studentID)
	if err != nil {
		return Resolution{}, err
	}
	if tutorID != auth.UserID {
		return Resolution{}, ErrStudentNotAssigned
	}
	return Resolution{
		Counterpart: studentID,
		StudentID:   studentID,
		AdvisorID:   auth.UserID,
		Category:    category,
	}, nil
}

func (r *RoleResolver) resolveStudent(ctx context.Context, auth models.AuthContext, mode models.BookingMode, sel Selection) (Resolution, error) {
	switch mode {
	case models.ModeWithTutor:
		tutorID, err := r.assignedTutor(ctx, auth.UserID)
		if err != nil {
			return Resolution{}, err
		}
		if tutorID == "" {
			return Resolution{}, ErrNoTutorAssigned
		}
		return Resolution{
			Counterpart: tutorID,
			StudentID:   auth.UserID,
			AdvisorID:   tutorID,
			Category:    models.CategoryFollowUp,
		}, nil
	case models.ModeWithCounselor:
		counselorID := strings.TrimSpace(sel.CounselorID)
		if counselorID == "" {
			return Resolution{}, ErrNoCounselorSelected
		}
		ok, err := r.isCounselor(ctx, counselorID)
		if err != nil {
			return Resolution{}, err
		}
		if !ok {
			return Resolution{}, ErrUnknownCounselor
		}
		return Resolution{
			Counterpart: counselorID,
			StudentID:   auth.UserID,
			AdvisorID:   counselorID,
			Category:    models.CategoryCounseling,
		}, nil
	default:
		return Resolution{}, ErrInvalidModeForRole
	}
}

// assignedTutor treats a NotFound from the directory as "no tutor".
func (r *RoleResolver) assignedTutor(ctx context.Context, studentID string) (string, error) {
	if r.dir == nil {
		return "", nil
	}
	tutorID, err := r.dir.AssignedTutor(ctx, studentID)
	if err != nil {
		if appErrors.IsCode(err, appErrors.ErrNotFound.Code) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(tutorID), nil
}

// isCounselor reports whether id belongs to the counselor directory.
func (r *RoleResolver) isCounselor(ctx context.Context, id string) (bool, error) {
	if r.dir == nil {
		return false, nil
	}
	counselors, err := r.dir.ListCounselors(ctx)
	if err != nil {
		return false, err
	}
	for _, counselor := range counselors {
		if counselor.ID == id && counselor.Role == models.RoleCounselor {
			return true, nil
		}
	}
	return false, nil
}
