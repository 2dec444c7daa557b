package handlers

import (
	"github.com/spec-kit/hrms-service/internal/api/dto"
	"github.com/spec-kit/hrms-service/internal/routing"
	"github.com/spec-kit/hrms-service/internal/service"
)

// UsersHandler exposes account administration.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// List handles GET /users.
func (h *UsersHandler) List(r *routing.Request) (*routing.Result, error) {
	page := r.Page()
	users, pagination, err := h.auth.ListUsers(r.Context(), page)
	if err != nil {
		return nil, err
	}
	return routing.Paginated("Users retrieved", dto.NewUserList(users), pagination), nil
}

// Create handles POST /users.
func (h *UsersHandler) Create(r *routing.Request) (*routing.Result, error) {
	var req dto.CreateUserRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	user, err := h.auth.CreateUser(r.Context(), r.Caller, req.ToInput())
	if err != nil {
		return nil, err
	}
	return routing.Created("User created", dto.NewUserResponse(user)), nil
}

// UpdateStatus handles PUT /users/{id}/status.
func (h *UsersHandler) UpdateStatus(r *routing.Request) (*routing.Result, error) {
	var req dto.UpdateUserStatusRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	user, err := h.auth.UpdateUserStatus(r.Context(), r.Caller, r.Param(0), req.Status)
	if err != nil {
		return nil, err
	}
	return routing.OK("User status updated", dto.NewUserResponse(user)), nil
}
