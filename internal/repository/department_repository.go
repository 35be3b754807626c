package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/org-directory-bot/internal/domain"
	apperrors "github.com/spec-kit/org-directory-bot/pkg/util/errorutil"
)

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	Rename(ctx context.Context, id int64, name string) error
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	// List returns a name-ordered page of departments.
	List(ctx context.Context, offset, limit int) ([]domain.Department, error)
	Count(ctx context.Context) (int64, error)
	// Delete removes the department and every employee it owns in one
	// transaction; returns the number of employees removed.
	Delete(ctx context.Context, id int64) (int64, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, dept.Name).
		Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewDuplicateName(dept.Name)
	}
	return err
}

func (r *departmentRepository) Rename(ctx context.Context, id int64, name string) error {
	const query = `
        UPDATE departments SET name=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, name, id)
	if isUniqueViolation(err) {
		return apperrors.NewDuplicateName(name)
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	return nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM departments WHERE id=$1`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&dept.ID,
		&dept.Name,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"id": id})
		}
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context, offset, limit int) ([]domain.Department, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM departments
        ORDER BY name
        LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM departments`
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	empCmd, err := tx.Exec(ctx, `DELETE FROM employees WHERE department_id=$1`, id)
	if err != nil {
		return 0, err
	}
	deptCmd, err := tx.Exec(ctx, `DELETE FROM departments WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	if deptCmd.RowsAffected() == 0 {
		return 0, apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return empCmd.RowsAffected(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
