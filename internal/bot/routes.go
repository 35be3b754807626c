// Package bot binds the dialogue engine's route tables to the directory
// service and menu builders: one route per (state, event) pair the
// conversation recognizes. Events without a route in the current state are
// dropped by the engine.
package bot

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/org-directory-bot/internal/dialog"
	"github.com/spec-kit/org-directory-bot/internal/menu"
	"github.com/spec-kit/org-directory-bot/internal/service"
)

// Dependencies bundles collaborators for route registration.
type Dependencies struct {
	Directory *service.DirectoryService
	Gate      *dialog.Gate
	PageSize  int
	IsAdmin   func(userID int64) bool
	Logger    *zap.Logger
}

// Handlers implements every conversation step.
type Handlers struct {
	svc      *service.DirectoryService
	gate     *dialog.Gate
	pageSize int
	isAdmin  func(userID int64) bool
	logger   *zap.Logger
}

// Register wires all states and entry points into the engine.
func Register(engine *dialog.Engine, deps Dependencies) {
	h := &Handlers{
		svc:      deps.Directory,
		gate:     deps.Gate,
		pageSize: deps.PageSize,
		isAdmin:  deps.IsAdmin,
		logger:   deps.Logger,
	}

	engine.SetHome(func(ctx context.Context, sess *dialog.Session, ev dialog.Event) (dialog.Response, dialog.State, error) {
		return h.mainMenu(ctx, sess, dialog.OpenMainMenu{})
	})

	// Entry points reachable from any state: the reset command and the
	// add-employee shortcut.
	engine.Entry(
		dialog.On(h.start),
		dialog.Admin(dialog.On(h.addEmployeePickDepartment)),
	)

	engine.At(dialog.StateMainMenu,
		dialog.On(h.listDepartments),
		dialog.Admin(dialog.On(h.addDepartmentStart)),
		dialog.On(h.mainMenu),
	)

	engine.At(dialog.StateAddDepartment,
		dialog.On(h.addDepartmentFinish),
		dialog.On(h.mainMenu),
	)

	engine.At(dialog.StateViewDepartments,
		dialog.On(h.viewEmployees),
		dialog.On(h.listDepartments),
		dialog.On(h.mainMenu),
	)

	engine.At(dialog.StateViewEmployees,
		dialog.On(h.viewEmployeeDetails),
		dialog.Admin(dialog.On(h.addEmployeeStart)),
		dialog.Admin(dialog.On(h.editDepartment)),
		dialog.On(h.listDepartments),
		dialog.On(h.mainMenu),
	)

	engine.At(dialog.StateEditDepartment,
		dialog.Admin(dialog.On(h.renameDepartmentStart)),
		dialog.Admin(dialog.On(h.deleteDepartmentConfirm)),
		dialog.On(h.viewEmployees),
	)

	engine.At(dialog.StateEditDepartmentName,
		dialog.On(h.renameDepartmentFinish),
		dialog.On(h.editDepartment),
	)

	engine.At(dialog.StateViewEmployeeDetails,
		dialog.Admin(dialog.On(h.editEmployeeFields)),
		dialog.Admin(dialog.On(h.deleteEmployeeConfirm)),
		dialog.On(h.viewEmployeeDetails),
		dialog.On(h.mainMenu),
	)

	engine.At(dialog.StateEditEmployeeField,
		dialog.Admin(dialog.On(h.editEmployeeNameStart)),
		dialog.Admin(dialog.On(h.editEmployeeBirthStart)),
		dialog.Admin(dialog.On(h.toggleEmployeeHead)),
		dialog.On(h.viewEmployeeDetails),
	)

	engine.At(dialog.StateEditEmployeeName,
		dialog.On(h.saveEmployeeName),
		dialog.On(h.viewEmployeeDetails),
	)

	engine.At(dialog.StateEditEmployeeBirth,
		dialog.On(h.saveEmployeeBirth),
		dialog.On(h.viewEmployeeDetails),
	)

	engine.At(dialog.StateAddEmployeeStart,
		dialog.Admin(dialog.On(h.addEmployeeStart)),
		dialog.On(h.mainMenu),
	)

	engine.At(dialog.StateAddEmployeeName,
		dialog.On(h.addEmployeeName),
		dialog.On(h.viewEmployees),
		dialog.On(h.mainMenu),
	)

	engine.At(dialog.StateAddEmployeeBirth,
		dialog.On(h.addEmployeeBirth),
		dialog.On(h.mainMenu),
	)

	engine.At(dialog.StateAddEmployeeTgID,
		dialog.On(h.addEmployeeExternalID),
		dialog.On(h.mainMenu),
	)

	engine.At(dialog.StateConfirmDelete,
		dialog.On(h.executeDelete),
		dialog.On(h.cancelDeleteToDepartment),
		dialog.On(h.cancelDeleteToEmployee),
		dialog.On(h.mainMenu),
	)
}

// start handles the reset command: a hard escape hatch back to the main menu.
func (h *Handlers) start(ctx context.Context, sess *dialog.Session, _ dialog.ResetCommand) (dialog.Response, dialog.State, error) {
	sess.ClearFlow()
	admin := h.isAdmin(sess.UserID)
	text := "🔍 You can browse the organization directory"
	if admin {
		text = "👑 You are signed in as an administrator"
	}
	return dialog.Response{Text: text, Keyboard: menu.Main(admin)}, dialog.StateMainMenu, nil
}

// mainMenu returns to the main menu, discarding any in-flight flow.
func (h *Handlers) mainMenu(ctx context.Context, sess *dialog.Session, _ dialog.OpenMainMenu) (dialog.Response, dialog.State, error) {
	sess.ClearFlow()
	return dialog.Response{
		Text:     "🏠 Main menu:",
		Keyboard: menu.Main(h.isAdmin(sess.UserID)),
	}, dialog.StateMainMenu, nil
}
