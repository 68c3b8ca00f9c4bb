package clients

import "time"

// ClientStatus enumerates client account statuses. Status is assigned by
// operators, never derived by this layer.
type ClientStatus string

const (
	StatusActive    ClientStatus = "active"
	StatusLate      ClientStatus = "late"
	StatusSuspended ClientStatus = "suspended"
	StatusInactive  ClientStatus = "inactive"
)

// ValidStatus reports whether s is a known client status.
func ValidStatus(s ClientStatus) bool {
	switch s {
	case StatusActive, StatusLate, StatusSuspended, StatusInactive:
		return true
	}
	return false
}

// Client model.
type Client struct {
	ID         int64        `json:"id"`
	Code       string       `json:"code"`
	Name       string       `json:"name"`
	Phone      string       `json:"phone"`
	Status     ClientStatus `json:"status"`
	AssignedTo *int64       `json:"assigned_to,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// CreateClientInput for registering clients.
type CreateClientInput struct {
	Code       string `json:"code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone"`
	AssignedTo *int64 `json:"assigned_to"`
}

// UpdateClientInput for editing client master data.
type UpdateClientInput struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone"`
	AssignedTo *int64 `json:"assigned_to"`
}

// ListClientsRequest carries listing filters.
type ListClientsRequest struct {
	Status     ClientStatus
	AssignedTo *int64
	Search     string
	Page       int
	PerPage    int
}
