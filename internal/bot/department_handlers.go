package bot

import (
	"context"
	"fmt"

	"github.com/spec-kit/org-directory-bot/internal/dialog"
	"github.com/spec-kit/org-directory-bot/internal/menu"
)

// listDepartments shows one page of the department listing.
func (h *Handlers) listDepartments(ctx context.Context, sess *dialog.Session, ev dialog.ListDepartments) (dialog.Response, dialog.State, error) {
	page := ev.Page
	if page < 1 {
		page = 1
	}
	items, total, err := h.svc.ListDepartments(ctx, page, h.pageSize)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	sess.Page = page

	text := "📂 Departments:"
	if total == 0 {
		text = "📂 No departments yet."
	}
	return dialog.Response{
		Text:     text,
		Keyboard: menu.DepartmentList(items, page, h.pageSize, total),
	}, dialog.StateViewDepartments, nil
}

// viewEmployees opens a department and lists its employees.
func (h *Handlers) viewEmployees(ctx context.Context, sess *dialog.Session, ev dialog.SelectDepartment) (dialog.Response, dialog.State, error) {
	return h.employeesView(ctx, sess, ev.ID)
}

// employeesView is shared by every route that lands on a department's
// employee listing.
func (h *Handlers) employeesView(ctx context.Context, sess *dialog.Session, departmentID int64) (dialog.Response, dialog.State, error) {
	dept, err := h.svc.GetDepartment(ctx, departmentID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	items, _, err := h.svc.ListEmployees(ctx, departmentID, 1, h.pageSize)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	sess.DepartmentID = departmentID

	return dialog.Response{
		Text:     fmt.Sprintf("Department: %s\nEmployees:", dept.Name),
		Keyboard: menu.EmployeeList(departmentID, items, sess.Page, h.isAdmin(sess.UserID)),
	}, dialog.StateViewEmployees, nil
}

// addDepartmentStart prompts for the new department name.
func (h *Handlers) addDepartmentStart(ctx context.Context, sess *dialog.Session, _ dialog.AddDepartment) (dialog.Response, dialog.State, error) {
	return dialog.Response{
		Text:     "📝 Enter the new department name:",
		Keyboard: menu.Cancel(dialog.OpenMainMenu{}),
	}, dialog.StateAddDepartment, nil
}

// addDepartmentFinish creates the department from the entered name.
// Duplicate names re-prompt the same state.
func (h *Handlers) addDepartmentFinish(ctx context.Context, sess *dialog.Session, ev dialog.TextInput) (dialog.Response, dialog.State, error) {
	dept, err := h.svc.CreateDepartment(ctx, sess.UserID, ev.Text)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	return dialog.Response{
		Text:     fmt.Sprintf("✅ Department %q created!\n\n🏠 Main menu:", dept.Name),
		Keyboard: menu.Main(h.isAdmin(sess.UserID)),
	}, dialog.StateMainMenu, nil
}

// editDepartment opens the department action picker.
func (h *Handlers) editDepartment(ctx context.Context, sess *dialog.Session, ev dialog.EditDepartment) (dialog.Response, dialog.State, error) {
	dept, err := h.svc.GetDepartment(ctx, ev.ID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	sess.DepartmentID = dept.ID
	return dialog.Response{
		Text:     fmt.Sprintf("Choose an action for department %q:", dept.Name),
		Keyboard: menu.DepartmentActions(dept.ID),
	}, dialog.StateEditDepartment, nil
}

// renameDepartmentStart prompts for the new name.
func (h *Handlers) renameDepartmentStart(ctx context.Context, sess *dialog.Session, ev dialog.RenameDepartment) (dialog.Response, dialog.State, error) {
	sess.DepartmentID = ev.ID
	return dialog.Response{
		Text:     "📝 Enter the new department name:",
		Keyboard: menu.Cancel(dialog.EditDepartment{ID: ev.ID}),
	}, dialog.StateEditDepartmentName, nil
}

// renameDepartmentFinish applies the rename and returns to the employee
// listing of the renamed department.
func (h *Handlers) renameDepartmentFinish(ctx context.Context, sess *dialog.Session, ev dialog.TextInput) (dialog.Response, dialog.State, error) {
	dept, err := h.svc.RenameDepartment(ctx, sess.UserID, sess.DepartmentID, ev.Text)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	resp, next, err := h.employeesView(ctx, sess, dept.ID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	resp.Text = fmt.Sprintf("✅ Department renamed to %q!\n\n%s", dept.Name, resp.Text)
	return resp, next, nil
}

// deleteDepartmentConfirm arms the confirmation gate for a cascading delete
// and tells the user how many employees it will remove.
func (h *Handlers) deleteDepartmentConfirm(ctx context.Context, sess *dialog.Session, ev dialog.DeleteDepartment) (dialog.Response, dialog.State, error) {
	dept, err := h.svc.GetDepartment(ctx, ev.ID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	count, err := h.svc.CountEmployees(ctx, ev.ID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	code := h.gate.Begin(sess, dialog.TargetDepartment, ev.ID)
	return dialog.Response{
		Text: fmt.Sprintf(
			"❌ Delete department %q?\nThis will remove %d employee(s)!\n\n⚠️ Enter the code to confirm: %s\n❗️ This cannot be undone.",
			dept.Name, count, code),
		Keyboard: menu.Cancel(dialog.SelectDepartment{ID: ev.ID}),
	}, dialog.StateConfirmDelete, nil
}
