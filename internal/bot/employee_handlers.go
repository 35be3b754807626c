package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spec-kit/org-directory-bot/internal/dialog"
	"github.com/spec-kit/org-directory-bot/internal/domain"
	"github.com/spec-kit/org-directory-bot/internal/menu"
	"github.com/spec-kit/org-directory-bot/internal/service"
	apperrors "github.com/spec-kit/org-directory-bot/pkg/util/errorutil"
)

// skipToken bypasses the optional external-id step.
const skipToken = "skip"

// viewEmployeeDetails shows the employee card.
func (h *Handlers) viewEmployeeDetails(ctx context.Context, sess *dialog.Session, ev dialog.SelectEmployee) (dialog.Response, dialog.State, error) {
	return h.employeeDetailsView(ctx, sess, ev.ID)
}

func (h *Handlers) employeeDetailsView(ctx context.Context, sess *dialog.Session, employeeID int64) (dialog.Response, dialog.State, error) {
	emp, err := h.svc.GetEmployee(ctx, employeeID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	dept, err := h.svc.GetDepartment(ctx, emp.DepartmentID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	sess.EmployeeID = emp.ID
	sess.DepartmentID = emp.DepartmentID

	return dialog.Response{
		Text:     menu.EmployeeCard(emp, dept.Name),
		Keyboard: menu.EmployeeDetails(emp, h.isAdmin(sess.UserID)),
	}, dialog.StateViewEmployeeDetails, nil
}

// editEmployeeFields opens the field picker.
func (h *Handlers) editEmployeeFields(ctx context.Context, sess *dialog.Session, ev dialog.EditEmployee) (dialog.Response, dialog.State, error) {
	emp, err := h.svc.GetEmployee(ctx, ev.ID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	sess.EmployeeID = emp.ID
	return dialog.Response{
		Text:     "Choose a field to edit:",
		Keyboard: menu.EmployeeFieldPicker(emp),
	}, dialog.StateEditEmployeeField, nil
}

// editEmployeeNameStart prompts for the new full name.
func (h *Handlers) editEmployeeNameStart(ctx context.Context, sess *dialog.Session, ev dialog.EditEmployeeName) (dialog.Response, dialog.State, error) {
	sess.EmployeeID = ev.ID
	return dialog.Response{
		Text:     "✏️ Enter the new full name:",
		Keyboard: menu.Cancel(dialog.SelectEmployee{ID: ev.ID}),
	}, dialog.StateEditEmployeeName, nil
}

// saveEmployeeName applies the new name and returns to the details view.
func (h *Handlers) saveEmployeeName(ctx context.Context, sess *dialog.Session, ev dialog.TextInput) (dialog.Response, dialog.State, error) {
	if err := h.svc.UpdateEmployeeName(ctx, sess.UserID, sess.EmployeeID, ev.Text); err != nil {
		return dialog.Response{}, sess.State, err
	}
	resp, next, err := h.employeeDetailsView(ctx, sess, sess.EmployeeID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	resp.Text = "✅ Full name updated!\n\n" + resp.Text
	return resp, next, nil
}

// editEmployeeBirthStart prompts for the new birth date.
func (h *Handlers) editEmployeeBirthStart(ctx context.Context, sess *dialog.Session, ev dialog.EditEmployeeBirth) (dialog.Response, dialog.State, error) {
	sess.EmployeeID = ev.ID
	return dialog.Response{
		Text:     "📅 Enter the new birth date (DD.MM.YYYY):",
		Keyboard: menu.Cancel(dialog.SelectEmployee{ID: ev.ID}),
	}, dialog.StateEditEmployeeBirth, nil
}

// saveEmployeeBirth validates and applies the new birth date. Bad input
// re-prompts the same state.
func (h *Handlers) saveEmployeeBirth(ctx context.Context, sess *dialog.Session, ev dialog.TextInput) (dialog.Response, dialog.State, error) {
	birthDate, err := domain.ParseBirthDate(strings.TrimSpace(ev.Text))
	if err != nil {
		return dialog.Response{}, sess.State,
			apperrors.NewValidationError("invalid date format, use DD.MM.YYYY", nil)
	}
	if err := h.svc.UpdateEmployeeBirthDate(ctx, sess.UserID, sess.EmployeeID, birthDate); err != nil {
		return dialog.Response{}, sess.State, err
	}
	resp, next, err := h.employeeDetailsView(ctx, sess, sess.EmployeeID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	resp.Text = "✅ Birth date updated!\n\n" + resp.Text
	return resp, next, nil
}

// toggleEmployeeHead flips the head-of-department flag and returns to the
// details view.
func (h *Handlers) toggleEmployeeHead(ctx context.Context, sess *dialog.Session, ev dialog.ToggleEmployeeHead) (dialog.Response, dialog.State, error) {
	emp, err := h.svc.GetEmployee(ctx, ev.ID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	if err := h.svc.SetEmployeeHead(ctx, sess.UserID, ev.ID, !emp.IsHead); err != nil {
		return dialog.Response{}, sess.State, err
	}
	return h.employeeDetailsView(ctx, sess, ev.ID)
}

// deleteEmployeeConfirm arms the confirmation gate for an employee delete.
func (h *Handlers) deleteEmployeeConfirm(ctx context.Context, sess *dialog.Session, ev dialog.DeleteEmployee) (dialog.Response, dialog.State, error) {
	emp, err := h.svc.GetEmployee(ctx, ev.ID)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	code := h.gate.Begin(sess, dialog.TargetEmployee, ev.ID)
	return dialog.Response{
		Text: fmt.Sprintf(
			"❌ Delete employee %s?\n\n⚠️ Enter the code to confirm: %s\n❗️ This cannot be undone.",
			emp.FullName, code),
		Keyboard: menu.Cancel(dialog.SelectEmployee{ID: ev.ID}),
	}, dialog.StateConfirmDelete, nil
}

// executeDelete checks the confirmation code and performs the pending
// destructive operation. A mismatch aborts to the main menu; the code is
// single-use either way.
func (h *Handlers) executeDelete(ctx context.Context, sess *dialog.Session, ev dialog.TextInput) (dialog.Response, dialog.State, error) {
	pending, err := h.gate.Check(sess, strings.TrimSpace(ev.Text))
	if err != nil {
		return dialog.Response{}, sess.State, err
	}

	var text string
	switch pending.Kind {
	case dialog.TargetDepartment:
		removed, err := h.svc.DeleteDepartment(ctx, sess.UserID, pending.ID)
		if err != nil {
			return dialog.Response{}, sess.State, err
		}
		text = fmt.Sprintf("✅ Department deleted along with %d employee(s).", removed)
	case dialog.TargetEmployee:
		if err := h.svc.DeleteEmployee(ctx, sess.UserID, pending.ID); err != nil {
			return dialog.Response{}, sess.State, err
		}
		text = "✅ Employee deleted."
	default:
		return dialog.Response{}, sess.State,
			apperrors.NewInternalError(errors.New("unknown delete target kind"))
	}

	return dialog.Response{
		Text:     text + "\n\n🏠 Main menu:",
		Keyboard: menu.Main(h.isAdmin(sess.UserID)),
	}, dialog.StateMainMenu, nil
}

// cancelDeleteToDepartment discards the pending delete and returns to the
// department's employee listing.
func (h *Handlers) cancelDeleteToDepartment(ctx context.Context, sess *dialog.Session, ev dialog.SelectDepartment) (dialog.Response, dialog.State, error) {
	sess.Pending = nil
	return h.employeesView(ctx, sess, ev.ID)
}

// cancelDeleteToEmployee discards the pending delete and returns to the
// employee details view.
func (h *Handlers) cancelDeleteToEmployee(ctx context.Context, sess *dialog.Session, ev dialog.SelectEmployee) (dialog.Response, dialog.State, error) {
	sess.Pending = nil
	return h.employeeDetailsView(ctx, sess, ev.ID)
}

// addEmployeePickDepartment is the global add-employee shortcut: choose the
// owning department first.
func (h *Handlers) addEmployeePickDepartment(ctx context.Context, sess *dialog.Session, _ dialog.AddEmployee) (dialog.Response, dialog.State, error) {
	items, err := h.svc.ListAllDepartments(ctx)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	if len(items) == 0 {
		return dialog.Response{
			Text:     "📂 No departments yet — create one first.\n\n🏠 Main menu:",
			Keyboard: menu.Main(h.isAdmin(sess.UserID)),
		}, dialog.StateMainMenu, nil
	}
	return dialog.Response{
		Text:     "Choose a department for the new employee:",
		Keyboard: menu.DepartmentPicker(items),
	}, dialog.StateAddEmployeeStart, nil
}

// addEmployeeStart begins the employee entry for a known department.
func (h *Handlers) addEmployeeStart(ctx context.Context, sess *dialog.Session, ev dialog.AddEmployeeToDepartment) (dialog.Response, dialog.State, error) {
	if _, err := h.svc.GetDepartment(ctx, ev.ID); err != nil {
		return dialog.Response{}, sess.State, err
	}
	sess.DepartmentID = ev.ID
	sess.Draft = &dialog.EmployeeDraft{DepartmentID: ev.ID}
	return dialog.Response{
		Text:     "Enter the employee's full name:",
		Keyboard: menu.Cancel(dialog.SelectDepartment{ID: ev.ID}),
	}, dialog.StateAddEmployeeName, nil
}

// addEmployeeName records the entered name and asks for the birth date.
func (h *Handlers) addEmployeeName(ctx context.Context, sess *dialog.Session, ev dialog.TextInput) (dialog.Response, dialog.State, error) {
	draft, err := h.draft(sess)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		return dialog.Response{}, sess.State,
			apperrors.NewValidationError("full name must not be empty", nil)
	}
	draft.FullName = name
	return dialog.Response{
		Text:     "📅 Enter the birth date (DD.MM.YYYY):",
		Keyboard: menu.Cancel(dialog.OpenMainMenu{}),
	}, dialog.StateAddEmployeeBirth, nil
}

// addEmployeeBirth validates and records the birth date, then asks for the
// optional external id.
func (h *Handlers) addEmployeeBirth(ctx context.Context, sess *dialog.Session, ev dialog.TextInput) (dialog.Response, dialog.State, error) {
	draft, err := h.draft(sess)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	birthDate, parseErr := domain.ParseBirthDate(strings.TrimSpace(ev.Text))
	if parseErr != nil {
		return dialog.Response{}, sess.State,
			apperrors.NewValidationError("invalid date format, use DD.MM.YYYY", nil)
	}
	draft.BirthDate = birthDate
	draft.HasBirthDate = true
	return dialog.Response{
		Text:     fmt.Sprintf("🆔 Enter the employee's Telegram ID (or %q):", skipToken),
		Keyboard: menu.Cancel(dialog.OpenMainMenu{}),
	}, dialog.StateAddEmployeeTgID, nil
}

// addEmployeeExternalID handles the final step and commits the accumulated
// draft as exactly one store write.
func (h *Handlers) addEmployeeExternalID(ctx context.Context, sess *dialog.Session, ev dialog.TextInput) (dialog.Response, dialog.State, error) {
	draft, err := h.draft(sess)
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	input := strings.TrimSpace(ev.Text)
	var externalID *int64
	if !strings.EqualFold(input, skipToken) {
		id, parseErr := strconv.ParseInt(input, 10, 64)
		if parseErr != nil {
			return dialog.Response{}, sess.State,
				apperrors.NewValidationError(fmt.Sprintf("invalid id, enter a number or %q", skipToken), nil)
		}
		externalID = &id
	}

	emp, err := h.svc.CreateEmployee(ctx, sess.UserID, service.EmployeeInput{
		DepartmentID: draft.DepartmentID,
		FullName:     draft.FullName,
		BirthDate:    draft.BirthDate,
		ExternalID:   externalID,
	})
	if err != nil {
		return dialog.Response{}, sess.State, err
	}
	sess.ClearFlow()

	return dialog.Response{
		Text:     fmt.Sprintf("✅ Employee %s added!\n\n🏠 Main menu:", emp.FullName),
		Keyboard: menu.Main(h.isAdmin(sess.UserID)),
	}, dialog.StateMainMenu, nil
}

func (h *Handlers) draft(sess *dialog.Session) (*dialog.EmployeeDraft, error) {
	if sess.Draft == nil {
		return nil, apperrors.NewInternalError(errors.New("employee draft missing from session"))
	}
	return sess.Draft, nil
}
