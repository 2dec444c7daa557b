package handlers

import (
	"github.com/spec-kit/hrms-service/internal/api/dto"
	"github.com/spec-kit/hrms-service/internal/routing"
	"github.com/spec-kit/hrms-service/internal/service"
)

// AuthHandler exposes login, token and password endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(r *routing.Request) (*routing.Result, error) {
	var req dto.LoginRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	res, err := h.auth.Login(r.Context(), req.Identifier(), req.Password, req.RememberMe)
	if err != nil {
		return nil, err
	}
	return routing.OK("Login successful", dto.NewAuthResponse(res)), nil
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(r *routing.Request) (*routing.Result, error) {
	res, err := h.auth.Refresh(r.Context(), r.Caller)
	if err != nil {
		return nil, err
	}
	return routing.OK("Token refreshed", dto.NewAuthResponse(res)), nil
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(r *routing.Request) (*routing.Result, error) {
	if err := h.auth.Logout(r.Context(), r.Caller); err != nil {
		return nil, err
	}
	return routing.OK("Logged out", nil), nil
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(r *routing.Request) (*routing.Result, error) {
	user, err := h.auth.Me(r.Context(), r.Caller)
	if err != nil {
		return nil, err
	}
	return routing.OK("Current user", dto.NewUserResponse(user)), nil
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(r *routing.Request) (*routing.Result, error) {
	var req dto.ChangePasswordRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	if err := h.auth.ChangePassword(r.Context(), r.Caller, req.CurrentPassword, req.NewPassword); err != nil {
		return nil, err
	}
	return routing.OK("Password changed", nil), nil
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(r *routing.Request) (*routing.Result, error) {
	var req dto.PasswordResetRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		return nil, err
	}
	return routing.OK("If the email is registered, reset instructions have been sent", nil), nil
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(r *routing.Request) (*routing.Result, error) {
	var req dto.PasswordResetConfirmRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	if err := h.auth.ConfirmPasswordReset(r.Context(), req.Token, req.Password); err != nil {
		return nil, err
	}
	return routing.OK("Password has been reset", nil), nil
}
