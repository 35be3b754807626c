package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/org-directory-bot/internal/domain"
	"github.com/spec-kit/org-directory-bot/internal/events"
	"github.com/spec-kit/org-directory-bot/internal/repository"
	apperrors "github.com/spec-kit/org-directory-bot/pkg/util/errorutil"
)

// DirectoryService manages departments and employees on behalf of the
// dialogue handlers. All mutating operations require the actor to be on the
// admin allowlist.
type DirectoryService struct {
	departments repository.DepartmentRepository
	employees   repository.EmployeeRepository
	dispatcher  events.Dispatcher
	isAdmin     func(userID int64) bool
}

// DirectoryDependencies encapsulates collaborators required by the service.
type DirectoryDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	EmployeeRepo   repository.EmployeeRepository
	Dispatcher     events.Dispatcher
	IsAdmin        func(userID int64) bool
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		departments: deps.DepartmentRepo,
		employees:   deps.EmployeeRepo,
		dispatcher:  deps.Dispatcher,
		isAdmin:     deps.IsAdmin,
	}
}

// EmployeeInput carries the accumulated fields of a multi-step employee entry.
type EmployeeInput struct {
	DepartmentID int64
	FullName     string
	BirthDate    time.Time
	ExternalID   *int64
}

func (s *DirectoryService) requireAdmin(actorID int64) error {
	if s.isAdmin == nil || !s.isAdmin(actorID) {
		return apperrors.NewForbidden("admin rights required")
	}
	return nil
}

// ListDepartments returns one name-ordered page of departments plus the
// total count. Pages are 1-based.
func (s *DirectoryService) ListDepartments(ctx context.Context, page, pageSize int) ([]domain.Department, int64, error) {
	if page < 1 {
		page = 1
	}
	items, err := s.departments.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.departments.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return items, total, nil
}

// ListAllDepartments returns every department, name-ordered, capped at the
// picker limit used by the add-employee flow.
func (s *DirectoryService) ListAllDepartments(ctx context.Context) ([]domain.Department, error) {
	const pickerCap = 100
	items, err := s.departments.List(ctx, 0, pickerCap)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// GetDepartment fetches a department by id.
func (s *DirectoryService) GetDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// CreateDepartment creates a new department with a unique name.
func (s *DirectoryService) CreateDepartment(ctx context.Context, actorID int64, name string) (*domain.Department, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("department name must not be empty", nil)
	}
	dept := &domain.Department{Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actorID, events.EventDepartmentCreated, events.DepartmentCreatedPayload{
		DepartmentID: dept.ID,
		Name:         dept.Name,
	})
	return dept, nil
}

// RenameDepartment changes a department's name, keeping names unique.
func (s *DirectoryService) RenameDepartment(ctx context.Context, actorID, id int64, newName string) (*domain.Department, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperrors.NewValidationError("department name must not be empty", nil)
	}
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	oldName := dept.Name
	if err := s.departments.Rename(ctx, id, newName); err != nil {
		return nil, apperrors.MapError(err)
	}
	dept.Name = newName
	s.publish(ctx, actorID, events.EventDepartmentRenamed, events.DepartmentRenamedPayload{
		DepartmentID: id,
		OldName:      oldName,
		NewName:      newName,
	})
	return dept, nil
}

// DeleteDepartment removes a department and all of its employees atomically.
// Returns the number of employees removed by the cascade.
func (s *DirectoryService) DeleteDepartment(ctx context.Context, actorID, id int64) (int64, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return 0, err
	}
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	removed, err := s.departments.Delete(ctx, id)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.publish(ctx, actorID, events.EventDepartmentDeleted, events.DepartmentDeletedPayload{
		DepartmentID:     id,
		Name:             dept.Name,
		EmployeesRemoved: removed,
	})
	return removed, nil
}

// ListEmployees returns one name-ordered page of a department's employees
// plus the total count. Pages are 1-based.
func (s *DirectoryService) ListEmployees(ctx context.Context, departmentID int64, page, pageSize int) ([]domain.Employee, int64, error) {
	if page < 1 {
		page = 1
	}
	items, err := s.employees.ListByDepartment(ctx, departmentID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.employees.CountByDepartment(ctx, departmentID)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return items, total, nil
}

// CountEmployees returns the number of employees in a department.
func (s *DirectoryService) CountEmployees(ctx context.Context, departmentID int64) (int64, error) {
	count, err := s.employees.CountByDepartment(ctx, departmentID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// GetEmployee fetches an employee by id.
func (s *DirectoryService) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return emp, nil
}

// CreateEmployee commits a fully accumulated employee entry as one row. The
// owning department is looked up fresh so a concurrently deleted department
// surfaces as NOT_FOUND instead of an orphan row.
func (s *DirectoryService) CreateEmployee(ctx context.Context, actorID int64, input EmployeeInput) (*domain.Employee, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, apperrors.NewValidationError("full name must not be empty", nil)
	}
	if input.BirthDate.IsZero() {
		return nil, apperrors.NewValidationError("birth date is required", nil)
	}
	if _, err := s.departments.GetByID(ctx, input.DepartmentID); err != nil {
		return nil, apperrors.MapError(err)
	}
	emp := &domain.Employee{
		DepartmentID: input.DepartmentID,
		FullName:     strings.TrimSpace(input.FullName),
		BirthDate:    input.BirthDate,
		ExternalID:   input.ExternalID,
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, actorID, events.EventEmployeeCreated, events.EmployeeCreatedPayload{
		EmployeeID:   emp.ID,
		DepartmentID: emp.DepartmentID,
		FullName:     emp.FullName,
	})
	return emp, nil
}

// UpdateEmployeeName changes an employee's full name.
func (s *DirectoryService) UpdateEmployeeName(ctx context.Context, actorID, id int64, fullName string) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return apperrors.NewValidationError("full name must not be empty", nil)
	}
	if err := s.employees.UpdateFullName(ctx, id, fullName); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, actorID, events.EventEmployeeUpdated, events.EmployeeUpdatedPayload{
		EmployeeID: id,
		Field:      "full_name",
	})
	return nil
}

// UpdateEmployeeBirthDate changes an employee's birth date.
func (s *DirectoryService) UpdateEmployeeBirthDate(ctx context.Context, actorID, id int64, birthDate time.Time) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	if err := s.employees.UpdateBirthDate(ctx, id, birthDate); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, actorID, events.EventEmployeeUpdated, events.EmployeeUpdatedPayload{
		EmployeeID: id,
		Field:      "birth_date",
	})
	return nil
}

// SetEmployeeHead toggles the head-of-department flag.
func (s *DirectoryService) SetEmployeeHead(ctx context.Context, actorID, id int64, head bool) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	if err := s.employees.SetHead(ctx, id, head); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, actorID, events.EventEmployeeUpdated, events.EmployeeUpdatedPayload{
		EmployeeID: id,
		Field:      "is_head",
	})
	return nil
}

// DeleteEmployee removes a single employee.
func (s *DirectoryService) DeleteEmployee(ctx context.Context, actorID, id int64) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, actorID, events.EventEmployeeDeleted, events.EmployeeDeletedPayload{
		EmployeeID:   emp.ID,
		DepartmentID: emp.DepartmentID,
		FullName:     emp.FullName,
	})
	return nil
}

func (s *DirectoryService) publish(ctx context.Context, actorID int64, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
