package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/persistence"
	"github.com/spec-kit/hrms-service/pkg/util"
)

// DepartmentFilter narrows department listings.
type DepartmentFilter struct {
	Search          string
	IncludeInactive bool
	Page            util.PageRequest
}

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context, filter DepartmentFilter) ([]domain.Department, int64, error)
}

type departmentRepository struct {
	db persistence.DBTX
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(db persistence.DBTX) DepartmentRepository {
	return &departmentRepository{db: db}
}

const departmentColumns = `id, name, code, description, manager_id, is_active, created_at, updated_at`

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (name, code, description, manager_id, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		dept.Name,
		dept.Code,
		dept.Description,
		dept.ManagerID,
		dept.IsActive,
	).Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	const query = `
        UPDATE departments SET name=$1, code=$2, description=$3, manager_id=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.db.Exec(ctx, query,
		dept.Name,
		dept.Code,
		dept.Description,
		dept.ManagerID,
		dept.IsActive,
		dept.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id=$1`
	return scanDepartment(r.db.QueryRow(ctx, query, id))
}

func (r *departmentRepository) List(ctx context.Context, filter DepartmentFilter) ([]domain.Department, int64, error) {
	var where whereBuilder
	if !filter.IncludeInactive {
		where.clauses = append(where.clauses, "is_active = TRUE")
	}
	if filter.Search != "" {
		where.add(likeAny("name", "code"), likePattern(filter.Search))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM departments WHERE `+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM departments WHERE %s ORDER BY name LIMIT %d OFFSET %d`,
		departmentColumns, where.sql(), filter.Page.PerPage, filter.Page.Offset())
	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *dept)
	}
	return result, total, rows.Err()
}

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	var dept domain.Department
	if err := row.Scan(
		&dept.ID,
		&dept.Name,
		&dept.Code,
		&dept.Description,
		&dept.ManagerID,
		&dept.IsActive,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}
