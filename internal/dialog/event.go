package dialog

import "fmt"

// Event is a tagged variant describing one inbound interaction. Variants are
// constructed once at the transport boundary; handlers never parse pattern
// strings.
type Event interface {
	isEvent()
}

// ResetCommand is the /start escape hatch; it transitions to the main menu
// from any state and discards in-flight flows.
type ResetCommand struct{}

// TextInput is a free-text message.
type TextInput struct {
	Text string
}

// OpenMainMenu returns to the main menu, cancelling any in-flight flow.
type OpenMainMenu struct{}

// ListDepartments shows one page of the department listing.
type ListDepartments struct {
	Page int
}

// SelectDepartment opens a department's employee listing.
type SelectDepartment struct {
	ID int64
}

// AddDepartment begins department creation.
type AddDepartment struct{}

// EditDepartment opens the department action picker.
type EditDepartment struct {
	ID int64
}

// RenameDepartment begins the department rename flow.
type RenameDepartment struct {
	ID int64
}

// DeleteDepartment requests confirmation for a cascading department delete.
type DeleteDepartment struct {
	ID int64
}

// SelectEmployee opens an employee's details view.
type SelectEmployee struct {
	ID int64
}

// EditEmployee opens the employee field picker.
type EditEmployee struct {
	ID int64
}

// EditEmployeeName begins the employee rename flow.
type EditEmployeeName struct {
	ID int64
}

// EditEmployeeBirth begins the employee birth-date edit flow.
type EditEmployeeBirth struct {
	ID int64
}

// ToggleEmployeeHead flips the head-of-department flag.
type ToggleEmployeeHead struct {
	ID int64
}

// DeleteEmployee requests confirmation for an employee delete.
type DeleteEmployee struct {
	ID int64
}

// AddEmployee is the global add-employee shortcut; it is enterable from any
// state and starts with department selection.
type AddEmployee struct{}

// AddEmployeeToDepartment starts employee entry for a known department.
type AddEmployeeToDepartment struct {
	ID int64
}

func (ResetCommand) isEvent()            {}
func (TextInput) isEvent()               {}
func (OpenMainMenu) isEvent()            {}
func (ListDepartments) isEvent()         {}
func (SelectDepartment) isEvent()        {}
func (AddDepartment) isEvent()           {}
func (EditDepartment) isEvent()          {}
func (RenameDepartment) isEvent()        {}
func (DeleteDepartment) isEvent()        {}
func (SelectEmployee) isEvent()          {}
func (EditEmployee) isEvent()            {}
func (EditEmployeeName) isEvent()        {}
func (EditEmployeeBirth) isEvent()       {}
func (ToggleEmployeeHead) isEvent()      {}
func (DeleteEmployee) isEvent()          {}
func (AddEmployee) isEvent()             {}
func (AddEmployeeToDepartment) isEvent() {}

// EventName returns a stable identifier for logging and metrics.
func EventName(ev Event) string {
	return fmt.Sprintf("%T", ev)
}
