package models

import "strings"

// Role identifies which kind of participant is acting.
type Role string

const (
	RoleStudent   Role = "student"
	RoleTutor     Role = "tutor"
	RoleCounselor Role = "counselor"
	RoleAdmin     Role = "admin"
)

var roleAliases = map[string]Role{
	"student":       RoleStudent,
	"alumno":        RoleStudent,
	"tutor":         RoleTutor,
	"counselor":     RoleCounselor,
	"orientador":    RoleCounselor,
	"admin":         RoleAdmin,
	"administrador": RoleAdmin,
}

// ParseRole normalises a wire role, accepting the legacy Spanish names.
func ParseRole(raw string) (Role, bool) {
	role, ok := roleAliases[strings.ToLower(strings.TrimSpace(raw))]
	return role, ok
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleCounselor, RoleAdmin:
		return true
	}
	return false
}

// Participant is a directory record for a student, tutor or counselor.
type Participant struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email,omitempty"`
	Role     Role   `db:"role" json:"role"`
}
