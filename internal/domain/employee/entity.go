package employee

import (
	"time"
)

type Employee struct {
	ID             string
	Name           string
	EmployeeNumber string
	Title          *string
	Division       *string
	Email          string
	Role           Role
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}
