package domain

import "time"

// Role separates the two kinds of accounts the platform knows about.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleCompany Role = "COMPANY"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleCompany
}

// User represents an account that can authenticate against the service.
type User struct {
	ID              int64
	Username        string
	Email           string
	PasswordHash    string
	Name            string
	Surname         string
	ProfileImageURL string
	Role            Role
	CreatedAt       time.Time
}
