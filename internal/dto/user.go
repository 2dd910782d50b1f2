package dto

import "github.com/noah-isme/rajbhasha-api/internal/models"

// CreateUserRequest is the payload an admin sends to open an account.
type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required,max=150"`
	Email    string          `json:"email" validate:"required,email"`
	Mobile   string          `json:"mobile,omitempty" validate:"omitempty,numeric,len=10"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	Group    string          `json:"group" validate:"required,max=100"`
}

// UpdateUserRequest changes account details. Absent fields are left as they are.
type UpdateUserRequest struct {
	Name   *string          `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	Email  *string          `json:"email,omitempty" validate:"omitempty,email"`
	Mobile *string          `json:"mobile,omitempty" validate:"omitempty,numeric,len=10"`
	Role   *models.UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	Group  *string          `json:"group,omitempty" validate:"omitempty,min=1,max=100"`
	Active *bool            `json:"active,omitempty"`
}
