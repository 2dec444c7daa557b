package dto

import (
	"time"

	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/service"
)

// EmployeeRequest payload for create and update.
type EmployeeRequest struct {
	EmployeeCode string  `json:"employee_code" form:"employee_code"`
	FirstName    string  `json:"first_name" form:"first_name"`
	LastName     string  `json:"last_name" form:"last_name"`
	Email        string  `json:"email" form:"email"`
	Phone        string  `json:"phone" form:"phone"`
	DepartmentID *string `json:"department_id" form:"department_id"`
	Position     string  `json:"position" form:"position"`
	HireDate     string  `json:"hire_date" form:"hire_date"`
	Status       string  `json:"status" form:"status"`
}

// ToInput maps the payload onto the service input.
func (r EmployeeRequest) ToInput() service.EmployeeInput {
	return service.EmployeeInput{
		EmployeeCode: r.EmployeeCode,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Phone:        r.Phone,
		DepartmentID: r.DepartmentID,
		Position:     r.Position,
		HireDate:     r.HireDate,
		Status:       r.Status,
	}
}

// EmployeeResponse projection.
type EmployeeResponse struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	DepartmentID *string   `json:"department_id"`
	Position     string    `json:"position"`
	HireDate     string    `json:"hire_date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewEmployeeResponse projects an employee.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		FullName:     e.FullName(),
		Email:        e.Email,
		Phone:        e.Phone,
		DepartmentID: e.DepartmentID,
		Position:     e.Position,
		HireDate:     e.HireDate.Format("2006-01-02"),
		Status:       string(e.Status),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// NewEmployeeList projects a page of employees.
func NewEmployeeList(items []domain.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(items))
	for i := range items {
		out = append(out, NewEmployeeResponse(&items[i]))
	}
	return out
}

// DocumentRequest payload registering a stored document.
type DocumentRequest struct {
	Title        string `json:"title" form:"title"`
	DocumentType string `json:"document_type" form:"document_type"`
	StorageKey   string `json:"storage_key" form:"storage_key"`
	MimeType     string `json:"mime_type" form:"mime_type"`
	SizeBytes    int64  `json:"size_bytes" form:"size_bytes"`
}

// ToInput maps the payload onto the service input.
func (r DocumentRequest) ToInput() service.DocumentInput {
	return service.DocumentInput{
		Title:        r.Title,
		DocumentType: r.DocumentType,
		StorageKey:   r.StorageKey,
		MimeType:     r.MimeType,
		SizeBytes:    r.SizeBytes,
	}
}

// DocumentResponse projection.
type DocumentResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	Title        string    `json:"title"`
	DocumentType string    `json:"document_type"`
	StorageKey   string    `json:"storage_key"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedBy   *string   `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewDocumentResponse projects a document.
func NewDocumentResponse(d *domain.EmployeeDocument) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		EmployeeID:   d.EmployeeID,
		Title:        d.Title,
		DocumentType: d.DocumentType,
		StorageKey:   d.StorageKey,
		MimeType:     d.MimeType,
		SizeBytes:    d.SizeBytes,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt,
	}
}

// NewDocumentList projects documents.
func NewDocumentList(items []domain.EmployeeDocument) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(items))
	for i := range items {
		out = append(out, NewDocumentResponse(&items[i]))
	}
	return out
}
