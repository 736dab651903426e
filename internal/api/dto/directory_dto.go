package dto

import "time"

// DepartmentRequest payload.
type DepartmentRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// DepartmentResponse payload.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAdminRequest payload.
type CreateAdminRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// AdminStatusRequest toggles an admin account.
type AdminStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

// AdminStatsResponse holds directory tallies.
type AdminStatsResponse struct {
	TotalAdmins      int `json:"total_admins"`
	TotalDepartments int `json:"total_departments"`
	ActiveAdmins     int `json:"active_admins"`
}
