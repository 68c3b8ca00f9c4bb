package employees

import "time"

// Employee joins the login account with the HR profile.
type Employee struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Position  string    `json:"position"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	HiredAt   time.Time `json:"hired_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateEmployeeInput provisions a login account and profile together.
type CreateEmployeeInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Position string `json:"position" validate:"required"`
	Phone    string `json:"phone"`
	RoleID   int64  `json:"role_id" validate:"required"`
	HiredAt  string `json:"hired_at"`
}

// UpdateEmployeeInput edits the mutable profile fields.
type UpdateEmployeeInput struct {
	FullName string `json:"full_name" validate:"required"`
	Position string `json:"position" validate:"required"`
	Phone    string `json:"phone"`
}
