package dto

import (
	"time"

	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/service"
)

// CreateUserRequest payload for admin-created accounts.
type CreateUserRequest struct {
	Username   string  `json:"username" form:"username"`
	Email      string  `json:"email" form:"email"`
	Password   string  `json:"password" form:"password"`
	Role       string  `json:"role" form:"role"`
	EmployeeID *string `json:"employee_id" form:"employee_id"`
}

// ToInput maps the payload onto the service input.
func (r CreateUserRequest) ToInput() service.CreateUserInput {
	return service.CreateUserInput{
		Username:   r.Username,
		Email:      r.Email,
		Password:   r.Password,
		Role:       r.Role,
		EmployeeID: r.EmployeeID,
	}
}

// UpdateUserStatusRequest payload.
type UpdateUserStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// UserResponse is the public projection of an account. It never carries the password hash.
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	EmployeeID  *string    `json:"employee_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewUserResponse projects a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        string(u.Role),
		Status:      string(u.Status),
		EmployeeID:  u.EmployeeID,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// NewUserList projects a page of users.
func NewUserList(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
