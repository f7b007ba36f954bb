package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleThirdYear  UserRole = "student_third"
	RoleFourthYear UserRole = "student_fourth"
	RoleFaculty    UserRole = "faculty"
)

// Roles lists every assignable role.
var Roles = []UserRole{RoleThirdYear, RoleFourthYear, RoleFaculty}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStudent reports whether r is either student role.
func (r UserRole) IsStudent() bool {
	return r == RoleThirdYear || r == RoleFourthYear
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// UserInfo is the public view of a user; the password hash never leaves the service layer.
type UserInfo struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Info projects the public fields of u.
func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// RoleCount is a users-per-role aggregate.
type RoleCount struct {
	Role  UserRole `db:"role" json:"role"`
	Count int      `db:"user_count" json:"count"`
}
