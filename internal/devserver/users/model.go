package users

import "time"

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

type User struct {
	ID       string
	Email    string
	Name     string
	Role     string
	Password []byte
}

type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}

// DefaultUsers is the seed directory used by the dev server: one account per
// dashboard role.
func DefaultUsers() []User {
	return []User{
		{ID: "u-admin", Email: "admin@school.example", Name: "Ada Admin", Role: RoleAdmin, Password: []byte("admin123")},
		{ID: "u-teacher", Email: "teacher@school.example", Name: "Tomas Teacher", Role: RoleTeacher, Password: []byte("teacher123")},
		{ID: "u-student", Email: "student@school.example", Name: "Sam Student", Role: RoleStudent, Password: []byte("student123")},
		{ID: "u-parent", Email: "parent@school.example", Name: "Pat Parent", Role: RoleParent, Password: []byte("parent123")},
	}
}
