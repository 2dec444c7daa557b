package dto

import (
	"time"

	"github.com/spec-kit/hrms-service/internal/service"
)

// LoginRequest payload for login. Username accepts an email as well.
type LoginRequest struct {
	Username   string `json:"username" form:"username"`
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

// Identifier returns the login name, preferring username over email.
func (r LoginRequest) Identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email" form:"email"`
}

// PasswordResetConfirmRequest payload.
type PasswordResetConfirmRequest struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewAuthResponse projects a login result.
func NewAuthResponse(res *service.LoginResult) AuthResponse {
	return AuthResponse{
		Token:     res.Token.Value,
		TokenType: "Bearer",
		ExpiresAt: res.Token.ExpiresAt,
		User:      NewUserResponse(res.User),
	}
}
