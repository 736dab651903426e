package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/publicvoice/internal/domain"
)

// DepartmentRepository handles department persistence.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByCode(ctx context.Context, code string) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	Count(ctx context.Context) (int, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository constructs repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (name, code, description, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id::text, created_at`
	err := r.pool.QueryRow(ctx, query, dept.Name, dept.Code, dept.Description, dept.IsActive).
		Scan(&dept.ID, &dept.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDepartmentTaken
	}
	return err
}

func (r *departmentRepository) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	const query = `
        SELECT id::text, name, code, description, is_active, created_at
        FROM departments WHERE code=$1`
	return scanDepartment(r.pool.QueryRow(ctx, query, code))
}

// List returns departments in insertion order.
func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id::text, name, code, description, is_active, created_at
        FROM departments ORDER BY created_at ASC, name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Department{}
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	var dept domain.Department
	if err := row.Scan(&dept.ID, &dept.Name, &dept.Code, &dept.Description, &dept.IsActive, &dept.CreatedAt); err != nil {
		return nil, err
	}
	return &dept, nil
}
