package dto

import (
	"time"

	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/service"
)

// DepartmentRequest payload for create and update.
type DepartmentRequest struct {
	Name        string  `json:"name" form:"name"`
	Code        string  `json:"code" form:"code"`
	Description string  `json:"description" form:"description"`
	ManagerID   *string `json:"manager_id" form:"manager_id"`
	IsActive    *bool   `json:"is_active" form:"is_active"`
}

// ToInput maps the payload onto the service input.
func (r DepartmentRequest) ToInput() service.DepartmentInput {
	return service.DepartmentInput{
		Name:        r.Name,
		Code:        r.Code,
		Description: r.Description,
		ManagerID:   r.ManagerID,
		IsActive:    r.IsActive,
	}
}

// DepartmentResponse projection.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	ManagerID   *string   `json:"manager_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDepartmentResponse projects a department.
func NewDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		ManagerID:   d.ManagerID,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// NewDepartmentList projects a page of departments.
func NewDepartmentList(items []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(items))
	for i := range items {
		out = append(out, NewDepartmentResponse(&items[i]))
	}
	return out
}
