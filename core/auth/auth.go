// Package auth holds the identity primitives shared by every protected
// operation: the two principal roles, password hashing and the session
// token claims.
package auth

// Role tags a principal as a student or a teacher. Students and teachers
// live in separate tables, so logins are unique per role, not globally.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is one of the two known roles. Claims carrying
// anything else fail closed.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Principal is an authenticated student or teacher identity, as carried in
// the request context after the authentication gate has run.
type Principal struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
}
