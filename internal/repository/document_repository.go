package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hrms-service/internal/domain"
	"github.com/spec-kit/hrms-service/internal/persistence"
)

// DocumentRepository persists employee document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.EmployeeDocument) error
	GetByID(ctx context.Context, employeeID, id string) (*domain.EmployeeDocument, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.EmployeeDocument, error)
	Delete(ctx context.Context, employeeID, id string) error
}

type documentRepository struct {
	db persistence.DBTX
}

// NewDocumentRepository constructs repository.
func NewDocumentRepository(db persistence.DBTX) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.EmployeeDocument) error {
	const query = `
        INSERT INTO employee_documents (employee_id, title, document_type, storage_key, mime_type, size_bytes, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		doc.EmployeeID,
		doc.Title,
		doc.DocumentType,
		doc.StorageKey,
		doc.MimeType,
		doc.SizeBytes,
		doc.UploadedBy,
	).Scan(&doc.ID, &doc.CreatedAt)
}

// GetByID scopes the lookup to the employee so a document id cannot be read through another employee's path.
func (r *documentRepository) GetByID(ctx context.Context, employeeID, id string) (*domain.EmployeeDocument, error) {
	const query = `
        SELECT id, employee_id, title, document_type, storage_key, mime_type, size_bytes, uploaded_by, created_at
        FROM employee_documents WHERE employee_id=$1 AND id=$2`
	return scanDocument(r.db.QueryRow(ctx, query, employeeID, id))
}

func (r *documentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.EmployeeDocument, error) {
	const query = `
        SELECT id, employee_id, title, document_type, storage_key, mime_type, size_bytes, uploaded_by, created_at
        FROM employee_documents WHERE employee_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EmployeeDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *doc)
	}
	return result, rows.Err()
}

func (r *documentRepository) Delete(ctx context.Context, employeeID, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM employee_documents WHERE employee_id=$1 AND id=$2`, employeeID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanDocument(row pgx.Row) (*domain.EmployeeDocument, error) {
	var doc domain.EmployeeDocument
	if err := row.Scan(
		&doc.ID,
		&doc.EmployeeID,
		&doc.Title,
		&doc.DocumentType,
		&doc.StorageKey,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.UploadedBy,
		&doc.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &doc, nil
}
