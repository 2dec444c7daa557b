package domain

import "time"

// EmployeeStatus enumerates employment states.
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusOnLeave    EmployeeStatus = "on_leave"
	EmployeeStatusTerminated EmployeeStatus = "terminated"
)

// Employee is the core HR record.
type Employee struct {
	ID           string
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	DepartmentID *string
	Position     string
	HireDate     time.Time
	Status       EmployeeStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// EmployeeDocument stores metadata for a file attached to an employee.
type EmployeeDocument struct {
	ID           string
	EmployeeID   string
	Title        string
	DocumentType string
	StorageKey   string
	MimeType     string
	SizeBytes    int64
	UploadedBy   *string
	CreatedAt    time.Time
}
