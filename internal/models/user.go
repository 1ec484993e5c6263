package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles
type Role string

const (
	RolePatient  Role = "PATIENT"
	RoleDoctor   Role = "DOCTOR"
	RoleProvider Role = "PROVIDER"
)

// ParseRole parses a role name case-insensitively
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RolePatient:
		return RolePatient, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RoleProvider:
		return RoleProvider, nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// User represents the USERS table
type User struct {
	ID           string    `db:"USER_ID" json:"id"`
	Name         string    `db:"NAME" json:"name"`
	Email        string    `db:"EMAIL" json:"email"`
	PasswordHash string    `db:"PASSWORD_HASH" json:"-"`
	Role         Role      `db:"ROLE" json:"role"`
	AbhaID       *string   `db:"ABHA_ID" json:"abhaId,omitempty"`
	CreatedAt    time.Time `db:"CREATED_AT" json:"createdAt"`
	UpdatedAt    time.Time `db:"UPDATED_AT" json:"updatedAt"`
}

// UserSummary is the public view of a user returned by auth endpoints
type UserSummary struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Role   Role    `json:"role"`
	AbhaID *string `json:"abhaId,omitempty"`
}

// Summary returns the public view of u
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		AbhaID: u.AbhaID,
	}
}

// RegisterRequest is the payload of POST /api/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	AbhaID   string `json:"abhaId,omitempty"`
}

// LoginRequest is the payload of POST /api/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserSummary `json:"user"`
}

// PatientSummary is a patient search hit annotated with the searching doctor's consent status
type PatientSummary struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	AbhaID        *string       `json:"abhaId,omitempty"`
	ConsentStatus ConsentStatus `json:"consentStatus"`
}
