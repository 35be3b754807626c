package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/org-directory-bot/internal/domain"
	apperrors "github.com/spec-kit/org-directory-bot/pkg/util/errorutil"
)

// EmployeeRepository handles persistence for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	// ListByDepartment returns a name-ordered page of a department's employees.
	ListByDepartment(ctx context.Context, departmentID int64, offset, limit int) ([]domain.Employee, error)
	CountByDepartment(ctx context.Context, departmentID int64) (int64, error)
	UpdateFullName(ctx context.Context, id int64, fullName string) error
	UpdateBirthDate(ctx context.Context, id int64, birthDate time.Time) error
	SetHead(ctx context.Context, id int64, head bool) error
	Delete(ctx context.Context, id int64) error
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (department_id, full_name, birth_date, external_id, is_head)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		emp.DepartmentID,
		emp.FullName,
		emp.BirthDate,
		emp.ExternalID,
		emp.IsHead,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewValidationError("external id already in use",
			map[string]any{"external_id": emp.ExternalID})
	}
	return err
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	const query = `
        SELECT id, department_id, full_name, birth_date, external_id, is_head, created_at, updated_at
        FROM employees WHERE id=$1`
	var emp domain.Employee
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&emp.ID,
		&emp.DepartmentID,
		&emp.FullName,
		&emp.BirthDate,
		&emp.ExternalID,
		&emp.IsHead,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"id": id})
		}
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) ListByDepartment(ctx context.Context, departmentID int64, offset, limit int) ([]domain.Employee, error) {
	const query = `
        SELECT id, department_id, full_name, birth_date, external_id, is_head, created_at, updated_at
        FROM employees
        WHERE department_id=$1
        ORDER BY full_name
        LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, departmentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var emp domain.Employee
		if err := rows.Scan(
			&emp.ID,
			&emp.DepartmentID,
			&emp.FullName,
			&emp.BirthDate,
			&emp.ExternalID,
			&emp.IsHead,
			&emp.CreatedAt,
			&emp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, emp)
	}
	return result, rows.Err()
}

func (r *employeeRepository) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM employees WHERE department_id=$1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, departmentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *employeeRepository) UpdateFullName(ctx context.Context, id int64, fullName string) error {
	const query = `UPDATE employees SET full_name=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, id, query, fullName, id)
}

func (r *employeeRepository) UpdateBirthDate(ctx context.Context, id int64, birthDate time.Time) error {
	const query = `UPDATE employees SET birth_date=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, id, query, birthDate, id)
}

func (r *employeeRepository) SetHead(ctx context.Context, id int64, head bool) error {
	const query = `UPDATE employees SET is_head=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, id, query, head, id)
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM employees WHERE id=$1`
	return r.exec(ctx, id, query, id)
}

func (r *employeeRepository) exec(ctx context.Context, id int64, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	return nil
}
