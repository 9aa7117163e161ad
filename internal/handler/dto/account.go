// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/notekeep/notekeep/internal/model"
)

// CreateAccountRequest represents the request body for registration.
type CreateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"_id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedOn time.Time `json:"createdOn"`
}

// CreateAccountResponse is returned after a successful registration.
type CreateAccountResponse struct {
	Error       bool          `json:"error"`
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"accessToken"`
	Message     string        `json:"message"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Error       bool   `json:"error"`
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
	Message     string `json:"message"`
}

// GetUserResponse is returned by the current user endpoint.
type GetUserResponse struct {
	User    *UserResponse `json:"user"`
	Message string        `json:"message"`
}

// MessageResponse is the bare envelope used for errors and deletions.
type MessageResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ToUserResponse converts a user to its public view. The hash is dropped.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		CreatedOn: user.CreatedOn,
	}
}
