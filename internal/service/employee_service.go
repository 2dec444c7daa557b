package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/events"
	"github.com/spec-kit/hrms-service/internal/repository"
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
	"github.com/spec-kit/hrms-service/pkg/validation"
)

const hireDateLayout = "2006-01-02"

// EmployeeInput carries writable employee fields as received from clients.
type EmployeeInput struct {
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	DepartmentID *string
	Position     string
	HireDate     string
	Status       string
}

// EmployeeQuery narrows employee listings.
type EmployeeQuery struct {
	Search       string
	DepartmentID string
	Status       string
	Page         apperrors.PageRequest
}

// DocumentInput describes a document already placed in storage.
type DocumentInput struct {
	Title        string
	DocumentType string
	StorageKey   string
	MimeType     string
	SizeBytes    int64
}

// EmployeeService manages employee records and their documents.
type EmployeeService struct {
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	documents   repository.DocumentRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// EmployeeDependencies encapsulates collaborators of the employee service.
type EmployeeDependencies struct {
	EmployeeRepo   repository.EmployeeRepository
	DepartmentRepo repository.DepartmentRepository
	DocumentRepo   repository.DocumentRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewEmployeeService builds the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:   deps.EmployeeRepo,
		departments: deps.DepartmentRepo,
		documents:   deps.DocumentRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// List returns one page of employees matching the query.
func (s *EmployeeService) List(ctx context.Context, q EmployeeQuery) ([]domain.Employee, apperrors.Pagination, error) {
	if err := validation.New().Field("status", q.Status, "in:"+employeeStatuses).Err(); err != nil {
		return nil, apperrors.Pagination{}, err
	}

	filter := repository.EmployeeFilter{Search: strings.TrimSpace(q.Search), Page: q.Page}
	if q.DepartmentID != "" {
		filter.DepartmentID = &q.DepartmentID
	}
	if q.Status != "" {
		status := domain.EmployeeStatus(q.Status)
		filter.Status = &status
	}

	items, total, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Pagination{}, err
	}
	return items, apperrors.NewPagination(q.Page, total), nil
}

// Get loads an employee by id.
func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

// Create validates and stores an employee.
func (s *EmployeeService) Create(ctx context.Context, caller *domain.Identity, in EmployeeInput) (*domain.Employee, error) {
	emp := &domain.Employee{Status: domain.EmployeeStatusActive}
	if err := s.prepare(ctx, emp, in, ""); err != nil {
		return nil, err
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, err
	}
	s.emit(ctx, events.EventEmployeeChanged, caller, emp.ID, events.ActionCreated, emp.FullName())
	return emp, nil
}

// Update replaces the writable fields of an employee.
func (s *EmployeeService) Update(ctx context.Context, caller *domain.Identity, id string, in EmployeeInput) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, emp, in, id); err != nil {
		return nil, err
	}
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, err
	}
	s.emit(ctx, events.EventEmployeeChanged, caller, emp.ID, events.ActionUpdated, emp.FullName())
	return emp, nil
}

// Delete removes an employee.
func (s *EmployeeService) Delete(ctx context.Context, caller *domain.Identity, id string) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.EventEmployeeChanged, caller, id, events.ActionDeleted, "")
	return nil
}

// ListDocuments returns the documents of an existing employee.
func (s *EmployeeService) ListDocuments(ctx context.Context, employeeID string) ([]domain.EmployeeDocument, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.documents.ListByEmployee(ctx, employeeID)
}

// GetDocument loads one document of an employee.
func (s *EmployeeService) GetDocument(ctx context.Context, employeeID, documentID string) (*domain.EmployeeDocument, error) {
	return s.documents.GetByID(ctx, employeeID, documentID)
}

// AddDocument records document metadata for an employee.
func (s *EmployeeService) AddDocument(ctx context.Context, caller *domain.Identity, employeeID string, in DocumentInput) (*domain.EmployeeDocument, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.DocumentType = strings.TrimSpace(in.DocumentType)
	in.StorageKey = strings.TrimSpace(in.StorageKey)
	v := validation.New().
		Field("title", in.Title, "required|max:200").
		Field("document_type", in.DocumentType, "required|max:50").
		Field("storage_key", in.StorageKey, "required|max:500").
		Field("mime_type", in.MimeType, "max:100")
	if in.SizeBytes < 0 {
		v.Add("size_bytes", "size_bytes must not be negative")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	doc := &domain.EmployeeDocument{
		EmployeeID:   employeeID,
		Title:        in.Title,
		DocumentType: in.DocumentType,
		StorageKey:   in.StorageKey,
		MimeType:     in.MimeType,
		SizeBytes:    in.SizeBytes,
	}
	if caller != nil {
		uploader := caller.UserID
		doc.UploadedBy = &uploader
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.emit(ctx, events.EventDocumentChanged, caller, doc.ID, events.ActionCreated, doc.Title)
	return doc, nil
}

// DeleteDocument removes one document of an employee.
func (s *EmployeeService) DeleteDocument(ctx context.Context, caller *domain.Identity, employeeID, documentID string) error {
	if err := s.documents.Delete(ctx, employeeID, documentID); err != nil {
		return err
	}
	s.emit(ctx, events.EventDocumentChanged, caller, documentID, events.ActionDeleted, "")
	return nil
}

// prepare validates in and copies it onto emp. excludeID skips emp itself in the uniqueness check.
func (s *EmployeeService) prepare(ctx context.Context, emp *domain.Employee, in EmployeeInput, excludeID string) error {
	in.EmployeeCode = strings.TrimSpace(in.EmployeeCode)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	v := validation.New().
		Field("employee_code", in.EmployeeCode, "required|max:20").
		Field("first_name", in.FirstName, "required|max:100").
		Field("last_name", in.LastName, "required|max:100").
		Field("email", in.Email, "required|email|max:255").
		Field("phone", in.Phone, "max:30").
		Field("position", in.Position, "max:100").
		Field("hire_date", in.HireDate, "required|date").
		Field("status", in.Status, "in:"+employeeStatuses)

	if in.DepartmentID != nil && *in.DepartmentID != "" {
		if _, err := s.departments.GetByID(ctx, *in.DepartmentID); err != nil {
			if !apperrors.IsMissing(err) {
				return err
			}
			v.Add("department_id", "Department does not exist")
		}
	} else {
		in.DepartmentID = nil
	}
	if err := v.Err(); err != nil {
		return err
	}

	exists, err := s.employees.ExistsByCodeOrEmail(ctx, in.EmployeeCode, in.Email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmployeeExists
	}

	hireDate, _ := time.Parse(hireDateLayout, strings.TrimSpace(in.HireDate))
	emp.EmployeeCode = in.EmployeeCode
	emp.FirstName = in.FirstName
	emp.LastName = in.LastName
	emp.Email = in.Email
	emp.Phone = strings.TrimSpace(in.Phone)
	emp.DepartmentID = in.DepartmentID
	emp.Position = strings.TrimSpace(in.Position)
	emp.HireDate = hireDate
	if in.Status != "" {
		emp.Status = domain.EmployeeStatus(in.Status)
	}
	return nil
}

func (s *EmployeeService) emit(ctx context.Context, eventType events.EventType, caller *domain.Identity, subjectID, action, name string) {
	if s.dispatcher == nil {
		return
	}
	event := events.New(eventType, subjectID, events.ActorFrom(caller), events.ChangePayload{Action: action, Name: name})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

var employeeStatuses = strings.Join([]string{
	string(domain.EmployeeStatusActive),
	string(domain.EmployeeStatusOnLeave),
	string(domain.EmployeeStatusTerminated),
}, ",")
