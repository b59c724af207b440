package user

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"    // HR / back office
	RoleEmployee Role = "EMPLOYEE" // Regular employee
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeID *string
}

// IsAdmin checks if user has back-office access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
