package handlers

import (
	"github.com/spec-kit/hrms-service/internal/api/dto"
	"github.com/spec-kit/hrms-service/internal/routing"
	"github.com/spec-kit/hrms-service/internal/service"
)

// DepartmentsHandler exposes department CRUD.
type DepartmentsHandler struct {
	departments *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departments *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{departments: departments}
}

// List handles GET /departments.
func (h *DepartmentsHandler) List(r *routing.Request) (*routing.Result, error) {
	items, pagination, err := h.departments.List(r.Context(), service.DepartmentQuery{
		Search:          r.Query("search"),
		IncludeInactive: r.QueryBool("include_inactive", false),
		Page:            r.Page(),
	})
	if err != nil {
		return nil, err
	}
	return routing.Paginated("Departments retrieved", dto.NewDepartmentList(items), pagination), nil
}

// Get handles GET /departments/{id}.
func (h *DepartmentsHandler) Get(r *routing.Request) (*routing.Result, error) {
	dept, err := h.departments.Get(r.Context(), r.Param(0))
	if err != nil {
		return nil, err
	}
	return routing.OK("Department retrieved", dto.NewDepartmentResponse(dept)), nil
}

// Create handles POST /departments.
func (h *DepartmentsHandler) Create(r *routing.Request) (*routing.Result, error) {
	var req dto.DepartmentRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	dept, err := h.departments.Create(r.Context(), r.Caller, req.ToInput())
	if err != nil {
		return nil, err
	}
	return routing.Created("Department created", dto.NewDepartmentResponse(dept)), nil
}

// Update handles PUT /departments/{id}.
func (h *DepartmentsHandler) Update(r *routing.Request) (*routing.Result, error) {
	var req dto.DepartmentRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	dept, err := h.departments.Update(r.Context(), r.Caller, r.Param(0), req.ToInput())
	if err != nil {
		return nil, err
	}
	return routing.OK("Department updated", dto.NewDepartmentResponse(dept)), nil
}

// Delete handles DELETE /departments/{id}.
func (h *DepartmentsHandler) Delete(r *routing.Request) (*routing.Result, error) {
	if err := h.departments.Delete(r.Context(), r.Caller, r.Param(0)); err != nil {
		return nil, err
	}
	return routing.NoContent(), nil
}
