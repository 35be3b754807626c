package transport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spec-kit/org-directory-bot/internal/dialog"
)

// Callback patterns are the wire encoding of button events. Parsing happens
// only here, at the transport boundary; handlers see tagged variants.
const (
	cbMainMenu        = "main_menu"
	cbAddDepartment   = "add_department"
	cbAddEmployee     = "add_employee"
	cbDepartmentsPage = "view_departments_"
	cbDepartment      = "dept_"
	cbEditDeptName    = "edit_dept_name_"
	cbEditDept        = "edit_dept_"
	cbDeleteDept      = "delete_dept_"
	cbAddEmpTo        = "add_emp_"
	cbEmployee        = "emp_"
	cbEditEmpName     = "edit_emp_name_"
	cbEditEmpBirth    = "edit_emp_birth_"
	cbToggleEmpHead   = "toggle_emp_head_"
	cbEditEmp         = "edit_emp_"
	cbDeleteEmp       = "del_emp_"
)

// EncodeCallback renders a button event as callback data.
func EncodeCallback(ev dialog.Event) (string, error) {
	switch e := ev.(type) {
	case dialog.OpenMainMenu:
		return cbMainMenu, nil
	case dialog.AddDepartment:
		return cbAddDepartment, nil
	case dialog.AddEmployee:
		return cbAddEmployee, nil
	case dialog.ListDepartments:
		return fmt.Sprintf("%s%d", cbDepartmentsPage, e.Page), nil
	case dialog.SelectDepartment:
		return fmt.Sprintf("%s%d", cbDepartment, e.ID), nil
	case dialog.RenameDepartment:
		return fmt.Sprintf("%s%d", cbEditDeptName, e.ID), nil
	case dialog.EditDepartment:
		return fmt.Sprintf("%s%d", cbEditDept, e.ID), nil
	case dialog.DeleteDepartment:
		return fmt.Sprintf("%s%d", cbDeleteDept, e.ID), nil
	case dialog.AddEmployeeToDepartment:
		return fmt.Sprintf("%s%d", cbAddEmpTo, e.ID), nil
	case dialog.SelectEmployee:
		return fmt.Sprintf("%s%d", cbEmployee, e.ID), nil
	case dialog.EditEmployeeName:
		return fmt.Sprintf("%s%d", cbEditEmpName, e.ID), nil
	case dialog.EditEmployeeBirth:
		return fmt.Sprintf("%s%d", cbEditEmpBirth, e.ID), nil
	case dialog.ToggleEmployeeHead:
		return fmt.Sprintf("%s%d", cbToggleEmpHead, e.ID), nil
	case dialog.EditEmployee:
		return fmt.Sprintf("%s%d", cbEditEmp, e.ID), nil
	case dialog.DeleteEmployee:
		return fmt.Sprintf("%s%d", cbDeleteEmp, e.ID), nil
	default:
		return "", fmt.Errorf("event %s has no callback encoding", dialog.EventName(ev))
	}
}

// DecodeCallback parses callback data back into an event. Longer prefixes
// are tried before their generic counterparts (edit_dept_name_ before
// edit_dept_).
func DecodeCallback(data string) (dialog.Event, error) {
	switch data {
	case cbMainMenu:
		return dialog.OpenMainMenu{}, nil
	case cbAddDepartment:
		return dialog.AddDepartment{}, nil
	case cbAddEmployee:
		return dialog.AddEmployee{}, nil
	}

	if raw, ok := strings.CutPrefix(data, cbDepartmentsPage); ok {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("callback %q: bad page: %w", data, err)
		}
		return dialog.ListDepartments{Page: page}, nil
	}

	for _, entry := range []struct {
		prefix string
		build  func(id int64) dialog.Event
	}{
		{cbEditDeptName, func(id int64) dialog.Event { return dialog.RenameDepartment{ID: id} }},
		{cbDeleteDept, func(id int64) dialog.Event { return dialog.DeleteDepartment{ID: id} }},
		{cbEditDept, func(id int64) dialog.Event { return dialog.EditDepartment{ID: id} }},
		{cbEditEmpName, func(id int64) dialog.Event { return dialog.EditEmployeeName{ID: id} }},
		{cbEditEmpBirth, func(id int64) dialog.Event { return dialog.EditEmployeeBirth{ID: id} }},
		{cbToggleEmpHead, func(id int64) dialog.Event { return dialog.ToggleEmployeeHead{ID: id} }},
		{cbEditEmp, func(id int64) dialog.Event { return dialog.EditEmployee{ID: id} }},
		{cbDeleteEmp, func(id int64) dialog.Event { return dialog.DeleteEmployee{ID: id} }},
		{cbAddEmpTo, func(id int64) dialog.Event { return dialog.AddEmployeeToDepartment{ID: id} }},
		{cbDepartment, func(id int64) dialog.Event { return dialog.SelectDepartment{ID: id} }},
		{cbEmployee, func(id int64) dialog.Event { return dialog.SelectEmployee{ID: id} }},
	} {
		if raw, ok := strings.CutPrefix(data, entry.prefix); ok {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("callback %q: bad id: %w", data, err)
			}
			return entry.build(id), nil
		}
	}

	return nil, fmt.Errorf("unknown callback pattern %q", data)
}
