package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/events"
	"github.com/spec-kit/hrms-service/internal/repository"
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
	"github.com/spec-kit/hrms-service/pkg/validation"
)

// DepartmentInput carries writable department fields.
type DepartmentInput struct {
	Name        string
	Code        string
	Description string
	ManagerID   *string
	IsActive    *bool
}

// DepartmentQuery narrows department listings.
type DepartmentQuery struct {
	Search          string
	IncludeInactive bool
	Page            apperrors.PageRequest
}

// DepartmentService manages organizational units.
type DepartmentService struct {
	departments repository.DepartmentRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewDepartmentService builds the service.
func NewDepartmentService(departments repository.DepartmentRepository, dispatcher events.Dispatcher, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{departments: departments, dispatcher: dispatcher, logger: logger}
}

// List returns one page of departments. Inactive ones are hidden unless asked for.
func (s *DepartmentService) List(ctx context.Context, q DepartmentQuery) ([]domain.Department, apperrors.Pagination, error) {
	items, total, err := s.departments.List(ctx, repository.DepartmentFilter{
		Search:          strings.TrimSpace(q.Search),
		IncludeInactive: q.IncludeInactive,
		Page:            q.Page,
	})
	if err != nil {
		return nil, apperrors.Pagination{}, err
	}
	return items, apperrors.NewPagination(q.Page, total), nil
}

// Get loads a department by id.
func (s *DepartmentService) Get(ctx context.Context, id string) (*domain.Department, error) {
	return s.departments.GetByID(ctx, id)
}

// Create validates and stores a department.
func (s *DepartmentService) Create(ctx context.Context, caller *domain.Identity, in DepartmentInput) (*domain.Department, error) {
	if err := validateDepartment(&in); err != nil {
		return nil, err
	}
	dept := &domain.Department{IsActive: true}
	applyDepartment(dept, in)
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	s.emit(ctx, caller, dept, events.ActionCreated)
	return dept, nil
}

// Update replaces the writable fields of a department.
func (s *DepartmentService) Update(ctx context.Context, caller *domain.Identity, id string, in DepartmentInput) (*domain.Department, error) {
	if err := validateDepartment(&in); err != nil {
		return nil, err
	}
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyDepartment(dept, in)
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, err
	}
	s.emit(ctx, caller, dept, events.ActionUpdated)
	return dept, nil
}

// Delete removes a department. Departments still referenced by employees are refused by the store.
func (s *DepartmentService) Delete(ctx context.Context, caller *domain.Identity, id string) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, caller, &domain.Department{ID: id}, events.ActionDeleted)
	return nil
}

func (s *DepartmentService) emit(ctx context.Context, caller *domain.Identity, dept *domain.Department, action string) {
	if s.dispatcher == nil {
		return
	}
	event := events.New(events.EventDepartmentChanged, dept.ID, events.ActorFrom(caller), events.ChangePayload{Action: action, Name: dept.Name})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func validateDepartment(in *DepartmentInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Description = strings.TrimSpace(in.Description)
	return validation.New().
		Field("name", in.Name, "required|max:100").
		Field("code", in.Code, "required|max:20").
		Field("description", in.Description, "max:1000").
		Err()
}

func applyDepartment(dept *domain.Department, in DepartmentInput) {
	dept.Name = in.Name
	dept.Code = in.Code
	dept.Description = in.Description
	dept.ManagerID = in.ManagerID
	if in.IsActive != nil {
		dept.IsActive = *in.IsActive
	}
}
