package dto

import (
	"time"

	"github.com/spec-kit/publicvoice/internal/domain"
)

// RegisterRequest payload for citizen self-registration. Role is never read from the body.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ActorResponse is a profile without credentials.
type ActorResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Phone      string      `json:"phone,omitempty"`
	Address    string      `json:"address,omitempty"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
	IsActive   bool        `json:"is_active"`
	LastLogin  *time.Time  `json:"last_login,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
