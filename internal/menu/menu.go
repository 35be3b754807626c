// Package menu renders option sets for the dialogue. Builders are pure
// functions of their inputs: no store access, no session access, idempotent
// for identical arguments.
package menu

import (
	"fmt"

	"github.com/spec-kit/org-directory-bot/internal/dialog"
	"github.com/spec-kit/org-directory-bot/internal/domain"
)

// Main builds the main menu for a role.
func Main(admin bool) dialog.Keyboard {
	kb := dialog.Keyboard{
		dialog.Row(dialog.Btn("📂 Departments", dialog.ListDepartments{Page: 1})),
	}
	if admin {
		kb = append(kb,
			dialog.Row(dialog.Btn("➕ Add department", dialog.AddDepartment{})),
			dialog.Row(dialog.Btn("➕ Add employee", dialog.AddEmployee{})),
		)
	}
	return kb
}

// DepartmentList builds one page of the department listing with pagination
// and a home button.
func DepartmentList(items []domain.Department, page, pageSize int, total int64) dialog.Keyboard {
	var kb dialog.Keyboard
	for _, dept := range items {
		kb = append(kb, dialog.Row(dialog.Btn(dept.Name, dialog.SelectDepartment{ID: dept.ID})))
	}
	if row := Pagination(page, pageSize, total); len(row) > 0 {
		kb = append(kb, row)
	}
	kb = append(kb, dialog.Row(dialog.Btn("🏠 Main menu", dialog.OpenMainMenu{})))
	return kb
}

// Pagination builds the prev/next row: previous iff page > 1, next iff
// page*pageSize < total.
func Pagination(page, pageSize int, total int64) []dialog.Button {
	var row []dialog.Button
	if page > 1 {
		row = append(row, dialog.Btn("⬅️ Prev", dialog.ListDepartments{Page: page - 1}))
	}
	if int64(page*pageSize) < total {
		row = append(row, dialog.Btn("➡️ Next", dialog.ListDepartments{Page: page + 1}))
	}
	return row
}

// EmployeeList builds a department's employee listing. Heads of department
// are prefixed with a crown. Admins additionally get edit/add actions.
func EmployeeList(departmentID int64, items []domain.Employee, backPage int, admin bool) dialog.Keyboard {
	var kb dialog.Keyboard
	for _, emp := range items {
		label := emp.FullName
		if emp.IsHead {
			label = "👑 " + label
		}
		kb = append(kb, dialog.Row(dialog.Btn(label, dialog.SelectEmployee{ID: emp.ID})))
	}
	if admin {
		kb = append(kb, dialog.Row(
			dialog.Btn("✏️ Edit department", dialog.EditDepartment{ID: departmentID}),
			dialog.Btn("➕ Add employee", dialog.AddEmployeeToDepartment{ID: departmentID}),
		))
	}
	kb = append(kb,
		dialog.Row(dialog.Btn("🔙 Back", dialog.ListDepartments{Page: backPage})),
		dialog.Row(dialog.Btn("🏠 Main menu", dialog.OpenMainMenu{})),
	)
	return kb
}

// EmployeeDetails builds the action set under an employee's details view.
func EmployeeDetails(emp *domain.Employee, admin bool) dialog.Keyboard {
	var kb dialog.Keyboard
	if admin {
		kb = append(kb,
			dialog.Row(dialog.Btn("✏️ Edit", dialog.EditEmployee{ID: emp.ID})),
			dialog.Row(dialog.Btn("❌ Delete", dialog.DeleteEmployee{ID: emp.ID})),
		)
	}
	kb = append(kb,
		dialog.Row(dialog.Btn("🔙 Back", dialog.SelectDepartment{ID: emp.DepartmentID})),
		dialog.Row(dialog.Btn("🏠 Main menu", dialog.OpenMainMenu{})),
	)
	return kb
}

// DepartmentActions builds the department action picker.
func DepartmentActions(departmentID int64) dialog.Keyboard {
	return dialog.Keyboard{
		dialog.Row(dialog.Btn("✏️ Rename", dialog.RenameDepartment{ID: departmentID})),
		dialog.Row(dialog.Btn("❌ Delete department", dialog.DeleteDepartment{ID: departmentID})),
		dialog.Row(dialog.Btn("🔙 Back", dialog.SelectDepartment{ID: departmentID})),
	}
}

// EmployeeFieldPicker builds the employee field picker.
func EmployeeFieldPicker(emp *domain.Employee) dialog.Keyboard {
	headLabel := "👑 Make head of department"
	if emp.IsHead {
		headLabel = "Remove head flag"
	}
	return dialog.Keyboard{
		dialog.Row(dialog.Btn("✏️ Full name", dialog.EditEmployeeName{ID: emp.ID})),
		dialog.Row(dialog.Btn("📅 Birth date", dialog.EditEmployeeBirth{ID: emp.ID})),
		dialog.Row(dialog.Btn(headLabel, dialog.ToggleEmployeeHead{ID: emp.ID})),
		dialog.Row(dialog.Btn("🔙 Back", dialog.SelectEmployee{ID: emp.ID})),
	}
}

// DepartmentPicker lists departments to attach a new employee to.
func DepartmentPicker(items []domain.Department) dialog.Keyboard {
	var kb dialog.Keyboard
	for _, dept := range items {
		kb = append(kb, dialog.Row(dialog.Btn(dept.Name, dialog.AddEmployeeToDepartment{ID: dept.ID})))
	}
	kb = append(kb, dialog.Row(dialog.Btn("🔙 Back", dialog.OpenMainMenu{})))
	return kb
}

// Cancel builds a single cancel button leading to the given event.
func Cancel(ev dialog.Event) dialog.Keyboard {
	return dialog.Keyboard{dialog.Row(dialog.Btn("❌ Cancel", ev))}
}

// EmployeeCard renders the details text for an employee.
func EmployeeCard(emp *domain.Employee, departmentName string) string {
	external := "not set"
	if emp.ExternalID != nil {
		external = fmt.Sprintf("%d", *emp.ExternalID)
	}
	head := ""
	if emp.IsHead {
		head = "\n👑 Head of department"
	}
	return fmt.Sprintf("👤 %s\n🎂 Born: %s\n🏢 Department: %s\n🆔 Telegram ID: %s%s",
		emp.FullName,
		domain.FormatBirthDate(emp.BirthDate),
		departmentName,
		external,
		head)
}
