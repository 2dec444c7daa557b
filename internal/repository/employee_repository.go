package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/persistence"
	"github.com/spec-kit/hrms-service/pkg/util"
)

// EmployeeFilter captures list parameters.
type EmployeeFilter struct {
	DepartmentID *string
	Status       *domain.EmployeeStatus
	Search       string
	Page         util.PageRequest
}

// EmployeeRepository encapsulates employee persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	ExistsByCodeOrEmail(ctx context.Context, code, email, excludeID string) (bool, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, int64, error)
}

type employeeRepository struct {
	db persistence.DBTX
}

// NewEmployeeRepository instantiates repository.
func NewEmployeeRepository(db persistence.DBTX) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, employee_code, first_name, last_name, email, phone, department_id, position, hire_date, status, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (employee_code, first_name, last_name, email, phone, department_id, position, hire_date, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		emp.EmployeeCode,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		emp.Phone,
		emp.DepartmentID,
		emp.Position,
		emp.HireDate,
		emp.Status,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	const query = `
        UPDATE employees SET employee_code=$1, first_name=$2, last_name=$3, email=$4, phone=$5,
            department_id=$6, position=$7, hire_date=$8, status=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.db.Exec(ctx, query,
		emp.EmployeeCode,
		emp.FirstName,
		emp.LastName,
		emp.Email,
		emp.Phone,
		emp.DepartmentID,
		emp.Position,
		emp.HireDate,
		emp.Status,
		emp.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	return scanEmployee(r.db.QueryRow(ctx, query, id))
}

func (r *employeeRepository) ExistsByCodeOrEmail(ctx context.Context, code, email, excludeID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM employees
            WHERE (employee_code=$1 OR LOWER(email)=LOWER($2)) AND ($3 = '' OR id::text <> $3)
        )`
	var exists bool
	err := r.db.QueryRow(ctx, query, code, email, excludeID).Scan(&exists)
	return exists, err
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, int64, error) {
	var where whereBuilder
	if filter.DepartmentID != nil {
		where.add("department_id=$%[1]d", *filter.DepartmentID)
	}
	if filter.Status != nil {
		where.add("status=$%[1]d", *filter.Status)
	}
	if filter.Search != "" {
		where.add(likeAny("first_name", "last_name", "email", "employee_code"),
			likePattern(filter.Search))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE `+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY last_name, first_name LIMIT %d OFFSET %d`,
		employeeColumns, where.sql(), filter.Page.PerPage, filter.Page.Offset())
	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *emp)
	}
	return result, total, rows.Err()
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var emp domain.Employee
	if err := row.Scan(
		&emp.ID,
		&emp.EmployeeCode,
		&emp.FirstName,
		&emp.LastName,
		&emp.Email,
		&emp.Phone,
		&emp.DepartmentID,
		&emp.Position,
		&emp.HireDate,
		&emp.Status,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}
