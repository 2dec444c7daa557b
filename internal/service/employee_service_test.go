package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/events"
	apperrors "github.com/spec-kit/hrms-service/pkg/util"
)

type employeeFixture struct {
	svc         *EmployeeService
	depts       *DepartmentService
	employees   *fakeEmployees
	departments *fakeDepartments
	documents   *fakeDocuments
	events      *recordingDispatcher
}

var hrCaller = &domain.Identity{UserID: "hr-1", Role: domain.RoleHR}

func newEmployeeFixture() *employeeFixture {
	f := &employeeFixture{
		employees:   newFakeEmployees(),
		departments: newFakeDepartments(),
		documents:   newFakeDocuments(),
		events:      &recordingDispatcher{},
	}
	f.svc = NewEmployeeService(EmployeeDependencies{
		EmployeeRepo:   f.employees,
		DepartmentRepo: f.departments,
		DocumentRepo:   f.documents,
		Dispatcher:     f.events,
	})
	f.depts = NewDepartmentService(f.departments, f.events, nil)
	return f
}

func validEmployee() EmployeeInput {
	return EmployeeInput{
		EmployeeCode: "E-001",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		HireDate:     "2024-02-01",
	}
}

func TestDepartmentLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newEmployeeFixture()

	_, err := f.depts.Create(ctx, hrCaller, DepartmentInput{Name: " ", Code: ""})
	de := assertStatus(t, err, http.StatusUnprocessableEntity)
	assert.Contains(t, de.Details, "name")
	assert.Contains(t, de.Details, "code")

	dept, err := f.depts.Create(ctx, hrCaller, DepartmentInput{Name: "Engineering", Code: "eng"})
	require.NoError(t, err)
	assert.Equal(t, "ENG", dept.Code)
	assert.True(t, dept.IsActive)

	inactive := false
	updated, err := f.depts.Update(ctx, hrCaller, dept.ID, DepartmentInput{Name: "R&D", Code: "RND", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	items, page, err := f.depts.List(ctx, DepartmentQuery{Page: apperrors.NewPageRequest(1, 10)})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), page.TotalRecords)

	items, _, err = f.depts.List(ctx, DepartmentQuery{IncludeInactive: true, Page: apperrors.NewPageRequest(1, 10)})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, f.depts.Delete(ctx, hrCaller, dept.ID))
	_, err = f.depts.Get(ctx, dept.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	de = assertStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Resource not found", de.Message)

	assert.Equal(t, []events.EventType{events.EventDepartmentChanged, events.EventDepartmentChanged, events.EventDepartmentChanged}, f.events.types())
}

func TestCreateEmployee(t *testing.T) {
	ctx := context.Background()
	f := newEmployeeFixture()
	dept, err := f.depts.Create(ctx, hrCaller, DepartmentInput{Name: "Finance", Code: "FIN"})
	require.NoError(t, err)

	in := validEmployee()
	in.DepartmentID = &dept.ID
	emp, err := f.svc.Create(ctx, hrCaller, in)
	require.NoError(t, err)
	assert.Equal(t, domain.EmployeeStatusActive, emp.Status)
	assert.Equal(t, 2024, emp.HireDate.Year())
	assert.Equal(t, "Ada Lovelace", emp.FullName())

	_, err = f.svc.Create(ctx, hrCaller, validEmployee())
	assert.ErrorIs(t, err, ErrEmployeeExists)
}

func TestCreateEmployeeValidation(t *testing.T) {
	f := newEmployeeFixture()
	missing := "d-404"
	_, err := f.svc.Create(context.Background(), hrCaller, EmployeeInput{
		Email:        "not-an-email",
		HireDate:     "01/02/2024",
		Status:       "retired",
		DepartmentID: &missing,
	})
	de := assertStatus(t, err, http.StatusUnprocessableEntity)
	for _, field := range []string{"employee_code", "first_name", "last_name", "email", "hire_date", "status", "department_id"} {
		assert.Contains(t, de.Details, field)
	}
	assert.Empty(t, f.employees.items)
}

func TestCreateEmployeeMalformedDepartment(t *testing.T) {
	f := newEmployeeFixture()
	f.departments.getErr = &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}
	in := validEmployee()
	bad := "not-a-uuid"
	in.DepartmentID = &bad

	_, err := f.svc.Create(context.Background(), hrCaller, in)
	de := assertStatus(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"Department does not exist"}, de.Details["department_id"])
	assert.Empty(t, f.employees.items)
}

func TestCreateEmployeeDepartmentLookupFailure(t *testing.T) {
	f := newEmployeeFixture()
	f.departments.getErr = &pgconn.PgError{Code: "08006"}
	in := validEmployee()
	id := "d-9"
	in.DepartmentID = &id

	_, err := f.svc.Create(context.Background(), hrCaller, in)
	assertStatus(t, err, http.StatusInternalServerError)
}

func TestUpdateEmployeeKeepsOwnCode(t *testing.T) {
	ctx := context.Background()
	f := newEmployeeFixture()
	emp, err := f.svc.Create(ctx, hrCaller, validEmployee())
	require.NoError(t, err)

	in := validEmployee()
	in.Position = "Analyst"
	in.Status = "on_leave"
	updated, err := f.svc.Update(ctx, hrCaller, emp.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Analyst", updated.Position)
	assert.Equal(t, domain.EmployeeStatusOnLeave, updated.Status)

	_, err = f.svc.Update(ctx, hrCaller, "e-404", in)
	assertStatus(t, err, http.StatusNotFound)
}

func TestListEmployeesFilters(t *testing.T) {
	ctx := context.Background()
	f := newEmployeeFixture()
	for i, code := range []string{"E-1", "E-2", "E-3"} {
		in := validEmployee()
		in.EmployeeCode = code
		in.Email = code + "@example.com"
		if i == 2 {
			in.Status = "terminated"
		}
		_, err := f.svc.Create(ctx, hrCaller, in)
		require.NoError(t, err)
	}

	items, page, err := f.svc.List(ctx, EmployeeQuery{Status: "active", Page: apperrors.NewPageRequest(1, 1)})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(2), page.TotalRecords)
	assert.True(t, page.HasNext)

	_, _, err = f.svc.List(ctx, EmployeeQuery{Status: "gone", Page: apperrors.NewPageRequest(1, 10)})
	assertStatus(t, err, http.StatusUnprocessableEntity)
}

func TestEmployeeDocuments(t *testing.T) {
	ctx := context.Background()
	f := newEmployeeFixture()
	emp, err := f.svc.Create(ctx, hrCaller, validEmployee())
	require.NoError(t, err)

	_, err = f.svc.AddDocument(ctx, hrCaller, emp.ID, DocumentInput{})
	assertStatus(t, err, http.StatusUnprocessableEntity)

	_, err = f.svc.AddDocument(ctx, hrCaller, "e-404", DocumentInput{Title: "Contract", DocumentType: "contract", StorageKey: "k"})
	assertStatus(t, err, http.StatusNotFound)

	doc, err := f.svc.AddDocument(ctx, hrCaller, emp.ID, DocumentInput{Title: "Contract", DocumentType: "contract", StorageKey: "docs/e-1/contract.pdf", MimeType: "application/pdf", SizeBytes: 1024})
	require.NoError(t, err)
	require.NotNil(t, doc.UploadedBy)
	assert.Equal(t, "hr-1", *doc.UploadedBy)

	docs, err := f.svc.ListDocuments(ctx, emp.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = f.svc.GetDocument(ctx, "e-other", doc.ID)
	assertStatus(t, err, http.StatusNotFound)

	require.NoError(t, f.svc.DeleteDocument(ctx, hrCaller, emp.ID, doc.ID))
	assertStatus(t, f.svc.DeleteDocument(ctx, hrCaller, emp.ID, doc.ID), http.StatusNotFound)
}
