// Package models holds the user service entities and request/response shapes.
package models

import (
	"time"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
)

// User is a registered account. PasswordHash never leaves the service.
type User struct {
	ID           int64
	Name         string
	Email        string
	Role         domain.Role
	PasswordHash []byte
	CreatedAt    time.Time
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the client-facing user shape.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResponse is returned by login: the signed token plus the user it
// identifies.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ToResponse maps a User onto its client-facing shape.
func ToResponse(u *User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}
