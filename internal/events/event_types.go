package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentCreated EventType = "department_created"
	EventDepartmentRenamed EventType = "department_renamed"
	EventDepartmentDeleted EventType = "department_deleted"
	EventEmployeeCreated   EventType = "employee_created"
	EventEmployeeUpdated   EventType = "employee_updated"
	EventEmployeeDeleted   EventType = "employee_deleted"
)

// Event represents a directory mutation emitted by the service layer.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DepartmentCreatedPayload payload.
type DepartmentCreatedPayload struct {
	DepartmentID int64  `json:"department_id"`
	Name         string `json:"name"`
}

// DepartmentRenamedPayload payload.
type DepartmentRenamedPayload struct {
	DepartmentID int64  `json:"department_id"`
	OldName      string `json:"old_name"`
	NewName      string `json:"new_name"`
}

// DepartmentDeletedPayload payload.
type DepartmentDeletedPayload struct {
	DepartmentID     int64  `json:"department_id"`
	Name             string `json:"name"`
	EmployeesRemoved int64  `json:"employees_removed"`
}

// EmployeeCreatedPayload payload.
type EmployeeCreatedPayload struct {
	EmployeeID   int64  `json:"employee_id"`
	DepartmentID int64  `json:"department_id"`
	FullName     string `json:"full_name"`
}

// EmployeeUpdatedPayload payload.
type EmployeeUpdatedPayload struct {
	EmployeeID int64  `json:"employee_id"`
	Field      string `json:"field"`
}

// EmployeeDeletedPayload payload.
type EmployeeDeletedPayload struct {
	EmployeeID   int64  `json:"employee_id"`
	DepartmentID int64  `json:"department_id"`
	FullName     string `json:"full_name"`
}
