package handlers

import (
	"github.com/spec-kit/hrms-service/internal/api/dto"
	"github.com/spec-kit/hrms-service/internal/routing"
	"github.com/spec-kit/hrms-service/internal/service"
)

// EmployeesHandler exposes employee records and their documents.
type EmployeesHandler struct {
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

// List handles GET /employees.
func (h *EmployeesHandler) List(r *routing.Request) (*routing.Result, error) {
	items, pagination, err := h.employees.List(r.Context(), service.EmployeeQuery{
		Search:       r.Query("search"),
		DepartmentID: r.Query("department_id"),
		Status:       r.Query("status"),
		Page:         r.Page(),
	})
	if err != nil {
		return nil, err
	}
	return routing.Paginated("Employees retrieved", dto.NewEmployeeList(items), pagination), nil
}

// Get handles GET /employees/{id}.
func (h *EmployeesHandler) Get(r *routing.Request) (*routing.Result, error) {
	emp, err := h.employees.Get(r.Context(), r.Param(0))
	if err != nil {
		return nil, err
	}
	return routing.OK("Employee retrieved", dto.NewEmployeeResponse(emp)), nil
}

// Create handles POST /employees.
func (h *EmployeesHandler) Create(r *routing.Request) (*routing.Result, error) {
	var req dto.EmployeeRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	emp, err := h.employees.Create(r.Context(), r.Caller, req.ToInput())
	if err != nil {
		return nil, err
	}
	return routing.Created("Employee created", dto.NewEmployeeResponse(emp)), nil
}

// Update handles PUT /employees/{id}.
func (h *EmployeesHandler) Update(r *routing.Request) (*routing.Result, error) {
	var req dto.EmployeeRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	emp, err := h.employees.Update(r.Context(), r.Caller, r.Param(0), req.ToInput())
	if err != nil {
		return nil, err
	}
	return routing.OK("Employee updated", dto.NewEmployeeResponse(emp)), nil
}

// Delete handles DELETE /employees/{id}.
func (h *EmployeesHandler) Delete(r *routing.Request) (*routing.Result, error) {
	if err := h.employees.Delete(r.Context(), r.Caller, r.Param(0)); err != nil {
		return nil, err
	}
	return routing.NoContent(), nil
}

// ListDocuments handles GET /employees/{id}/documents.
func (h *EmployeesHandler) ListDocuments(r *routing.Request) (*routing.Result, error) {
	docs, err := h.employees.ListDocuments(r.Context(), r.Param(0))
	if err != nil {
		return nil, err
	}
	return routing.OK("Documents retrieved", dto.NewDocumentList(docs)), nil
}

// GetDocument handles GET /employees/{id}/documents/{docId}.
func (h *EmployeesHandler) GetDocument(r *routing.Request) (*routing.Result, error) {
	doc, err := h.employees.GetDocument(r.Context(), r.Param(0), r.Param(1))
	if err != nil {
		return nil, err
	}
	return routing.OK("Document retrieved", dto.NewDocumentResponse(doc)), nil
}

// AddDocument handles POST /employees/{id}/documents.
func (h *EmployeesHandler) AddDocument(r *routing.Request) (*routing.Result, error) {
	var req dto.DocumentRequest
	if err := r.Bind(&req); err != nil {
		return nil, err
	}
	doc, err := h.employees.AddDocument(r.Context(), r.Caller, r.Param(0), req.ToInput())
	if err != nil {
		return nil, err
	}
	return routing.Created("Document added", dto.NewDocumentResponse(doc)), nil
}

// DeleteDocument handles DELETE /employees/{id}/documents/{docId}.
func (h *EmployeesHandler) DeleteDocument(r *routing.Request) (*routing.Result, error) {
	if err := h.employees.DeleteDocument(r.Context(), r.Caller, r.Param(0), r.Param(1)); err != nil {
		return nil, err
	}
	return routing.NoContent(), nil
}
