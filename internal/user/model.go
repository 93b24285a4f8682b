package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role in the system
type Role string

const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the recognized roles
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

// User represents a user in the system. Customers authenticate with a
// password; employees and admins are identified by an employee code.
type User struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"fullname"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	EmployeeCode *string   `json:"employee_code,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
