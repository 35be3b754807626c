// Package memory provides mutex-guarded in-memory implementations of the
// directory repositories. It backs the STORE_DRIVER=memory mode and the test
// suite; both repositories share one store so cascade deletes stay atomic.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/org-directory-bot/internal/domain"
	"github.com/spec-kit/org-directory-bot/internal/repository"
	apperrors "github.com/spec-kit/org-directory-bot/pkg/util/errorutil"
)

// Store holds all directory rows behind a single lock.
type Store struct {
	mu          sync.Mutex
	departments map[int64]domain.Department
	employees   map[int64]domain.Employee
	nextDeptID  int64
	nextEmpID   int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		departments: make(map[int64]domain.Department),
		employees:   make(map[int64]domain.Employee),
		nextDeptID:  1,
		nextEmpID:   1,
	}
}

// Departments returns the department repository view of the store.
func (s *Store) Departments() repository.DepartmentRepository {
	return &departmentRepo{store: s}
}

// Employees returns the employee repository view of the store.
func (s *Store) Employees() repository.EmployeeRepository {
	return &employeeRepo{store: s}
}

type departmentRepo struct {
	store *Store
}

func (r *departmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.departments {
		if existing.Name == dept.Name {
			return apperrors.NewDuplicateName(dept.Name)
		}
	}
	now := time.Now()
	dept.ID = s.nextDeptID
	s.nextDeptID++
	dept.CreatedAt = now
	dept.UpdatedAt = now
	s.departments[dept.ID] = *dept
	return nil
}

func (r *departmentRepo) Rename(ctx context.Context, id int64, name string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	dept, ok := s.departments[id]
	if !ok {
		return apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	for _, existing := range s.departments {
		if existing.ID != id && existing.Name == name {
			return apperrors.NewDuplicateName(name)
		}
	}
	dept.Name = name
	dept.UpdatedAt = time.Now()
	s.departments[id] = dept
	return nil
}

func (r *departmentRepo) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	dept, ok := s.departments[id]
	if !ok {
		return nil, apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	out := dept
	return &out, nil
}

func (r *departmentRepo) List(ctx context.Context, offset, limit int) ([]domain.Department, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]domain.Department, 0, len(s.departments))
	for _, dept := range s.departments {
		all = append(all, dept)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, offset, limit), nil
}

func (r *departmentRepo) Count(ctx context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.departments)), nil
}

func (r *departmentRepo) Delete(ctx context.Context, id int64) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[id]; !ok {
		return 0, apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	var removed int64
	for empID, emp := range s.employees {
		if emp.DepartmentID == id {
			delete(s.employees, empID)
			removed++
		}
	}
	delete(s.departments, id)
	return removed, nil
}

type employeeRepo struct {
	store *Store
}

func (r *employeeRepo) Create(ctx context.Context, emp *domain.Employee) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if emp.ExternalID != nil {
		for _, existing := range s.employees {
			if existing.ExternalID != nil && *existing.ExternalID == *emp.ExternalID {
				return apperrors.NewValidationError("external id already in use",
					map[string]any{"external_id": *emp.ExternalID})
			}
		}
	}
	now := time.Now()
	emp.ID = s.nextEmpID
	s.nextEmpID++
	emp.CreatedAt = now
	emp.UpdatedAt = now
	s.employees[emp.ID] = *emp
	return nil
}

func (r *employeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.employees[id]
	if !ok {
		return nil, apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	out := emp
	return &out, nil
}

func (r *employeeRepo) ListByDepartment(ctx context.Context, departmentID int64, offset, limit int) ([]domain.Employee, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.Employee
	for _, emp := range s.employees {
		if emp.DepartmentID == departmentID {
			all = append(all, emp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FullName < all[j].FullName })
	return page(all, offset, limit), nil
}

func (r *employeeRepo) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, emp := range s.employees {
		if emp.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (r *employeeRepo) UpdateFullName(ctx context.Context, id int64, fullName string) error {
	return r.update(id, func(emp *domain.Employee) {
		emp.FullName = fullName
	})
}

func (r *employeeRepo) UpdateBirthDate(ctx context.Context, id int64, birthDate time.Time) error {
	return r.update(id, func(emp *domain.Employee) {
		emp.BirthDate = birthDate
	})
}

func (r *employeeRepo) SetHead(ctx context.Context, id int64, head bool) error {
	return r.update(id, func(emp *domain.Employee) {
		emp.IsHead = head
	})
}

func (r *employeeRepo) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	delete(s.employees, id)
	return nil
}

func (r *employeeRepo) update(id int64, apply func(*domain.Employee)) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.employees[id]
	if !ok {
		return apperrors.NewNotFound("employee", map[string]any{"id": id})
	}
	apply(&emp)
	emp.UpdatedAt = time.Now()
	s.employees[id] = emp
	return nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	result := make([]T, end-offset)
	copy(result, all[offset:end])
	return result
}
