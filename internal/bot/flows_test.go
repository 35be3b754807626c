package bot

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/org-directory-bot/internal/dialog"
	"github.com/spec-kit/org-directory-bot/internal/observability"
	"github.com/spec-kit/org-directory-bot/internal/repository/memory"
	"github.com/spec-kit/org-directory-bot/internal/service"
)

const (
	adminID  int64 = 100
	viewerID int64 = 200
)

var confirmCodeRe = regexp.MustCompile(`confirm: (\d+)`)

type testEnv struct {
	engine *dialog.Engine
	store  *memory.Store
	svc    *service.DirectoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	isAdmin := func(userID int64) bool { return userID == adminID }
	store := memory.NewStore()
	svc := service.NewDirectoryService(service.DirectoryDependencies{
		DepartmentRepo: store.Departments(),
		EmployeeRepo:   store.Employees(),
		IsAdmin:        isAdmin,
	})

	engine := dialog.NewEngine(isAdmin, zap.NewNop(), observability.NewMetrics())
	Register(engine, Dependencies{
		Directory: svc,
		Gate:      dialog.NewGate(4),
		PageSize:  5,
		IsAdmin:   isAdmin,
		Logger:    zap.NewNop(),
	})
	return &testEnv{engine: engine, store: store, svc: svc}
}

func (e *testEnv) dispatch(t *testing.T, userID int64, ev dialog.Event) (dialog.Response, dialog.State) {
	t.Helper()
	resp, state, err := e.engine.Dispatch(context.Background(), userID, ev)
	require.NoError(t, err)
	return resp, state
}

// createDepartment walks the add-department flow as the admin.
func (e *testEnv) createDepartment(t *testing.T, name string) int64 {
	t.Helper()
	e.dispatch(t, adminID, dialog.ResetCommand{})
	e.dispatch(t, adminID, dialog.AddDepartment{})
	resp, state := e.dispatch(t, adminID, dialog.TextInput{Text: name})
	require.Equal(t, dialog.StateMainMenu, state)
	require.Contains(t, resp.Text, "created")

	depts, err := e.store.Departments().List(context.Background(), 0, 100)
	require.NoError(t, err)
	for _, dept := range depts {
		if dept.Name == name {
			return dept.ID
		}
	}
	t.Fatalf("department %q not found after creation", name)
	return 0
}

func (e *testEnv) departmentCount(t *testing.T) int64 {
	t.Helper()
	count, err := e.store.Departments().Count(context.Background())
	require.NoError(t, err)
	return count
}

func TestStart(t *testing.T) {
	env := newTestEnv(t)

	t.Run("admin greeting", func(t *testing.T) {
		resp, state := env.dispatch(t, adminID, dialog.ResetCommand{})
		assert.Equal(t, dialog.StateMainMenu, state)
		assert.Contains(t, resp.Text, "administrator")
		assert.Len(t, resp.Keyboard, 3)
	})

	t.Run("viewer greeting", func(t *testing.T) {
		resp, state := env.dispatch(t, viewerID, dialog.ResetCommand{})
		assert.Equal(t, dialog.StateMainMenu, state)
		assert.Contains(t, resp.Text, "browse")
		assert.Len(t, resp.Keyboard, 1)
	})
}

func TestAddDepartmentFlow(t *testing.T) {
	env := newTestEnv(t)
	env.createDepartment(t, "IT")

	t.Run("duplicate name re-prompts in place", func(t *testing.T) {
		env.dispatch(t, adminID, dialog.AddDepartment{})
		resp, state := env.dispatch(t, adminID, dialog.TextInput{Text: "IT"})
		assert.Equal(t, dialog.StateAddDepartment, state, "stays on the prompt")
		assert.Contains(t, resp.Text, "❌")
		assert.Equal(t, int64(1), env.departmentCount(t))

		// A corrected entry succeeds without restarting the flow.
		resp, state = env.dispatch(t, adminID, dialog.TextInput{Text: "Sales"})
		assert.Equal(t, dialog.StateMainMenu, state)
		assert.Contains(t, resp.Text, "created")
		assert.Equal(t, int64(2), env.departmentCount(t))
	})

	t.Run("viewer cannot start the flow", func(t *testing.T) {
		env.dispatch(t, viewerID, dialog.ResetCommand{})
		resp, state := env.dispatch(t, viewerID, dialog.AddDepartment{})
		assert.Equal(t, dialog.StateMainMenu, state, "no state change on denial")
		assert.Equal(t, "Access denied", resp.Notice)
		assert.True(t, resp.Alert)
		assert.Equal(t, int64(2), env.departmentCount(t))
	})
}

func TestAddEmployeeFlow(t *testing.T) {
	env := newTestEnv(t)
	deptID := env.createDepartment(t, "IT")
	ctx := context.Background()

	t.Run("full flow with skipped external id", func(t *testing.T) {
		resp, state := env.dispatch(t, adminID, dialog.AddEmployee{})
		assert.Equal(t, dialog.StateAddEmployeeStart, state)
		assert.Contains(t, resp.Text, "Choose a department")

		_, state = env.dispatch(t, adminID, dialog.AddEmployeeToDepartment{ID: deptID})
		assert.Equal(t, dialog.StateAddEmployeeName, state)

		_, state = env.dispatch(t, adminID, dialog.TextInput{Text: "A. Ivanov"})
		assert.Equal(t, dialog.StateAddEmployeeBirth, state)

		// No store write happens before the final step.
		count, err := env.store.Employees().CountByDepartment(ctx, deptID)
		require.NoError(t, err)
		assert.Zero(t, count)

		_, state = env.dispatch(t, adminID, dialog.TextInput{Text: "15.05.1990"})
		assert.Equal(t, dialog.StateAddEmployeeTgID, state)

		resp, state = env.dispatch(t, adminID, dialog.TextInput{Text: "SKIP"})
		assert.Equal(t, dialog.StateMainMenu, state)
		assert.Contains(t, resp.Text, "A. Ivanov added")

		items, err := env.store.Employees().ListByDepartment(ctx, deptID, 0, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "A. Ivanov", items[0].FullName)
		assert.Nil(t, items[0].ExternalID)
	})

	t.Run("bad birth date re-prompts in place", func(t *testing.T) {
		env.dispatch(t, adminID, dialog.AddEmployee{})
		env.dispatch(t, adminID, dialog.AddEmployeeToDepartment{ID: deptID})
		env.dispatch(t, adminID, dialog.TextInput{Text: "B. Petrov"})

		resp, state := env.dispatch(t, adminID, dialog.TextInput{Text: "1990-05-15"})
		assert.Equal(t, dialog.StateAddEmployeeBirth, state)
		assert.Contains(t, resp.Text, "DD.MM.YYYY")

		_, state = env.dispatch(t, adminID, dialog.TextInput{Text: "01.02.1985"})
		assert.Equal(t, dialog.StateAddEmployeeTgID, state)

		resp, state = env.dispatch(t, adminID, dialog.TextInput{Text: "555777"})
		assert.Equal(t, dialog.StateMainMenu, state)
		assert.Contains(t, resp.Text, "added")

		items, err := env.store.Employees().ListByDepartment(ctx, deptID, 0, 10)
		require.NoError(t, err)
		require.Len(t, items, 2)
	})

	t.Run("reset mid-flow discards the draft", func(t *testing.T) {
		env.dispatch(t, adminID, dialog.AddEmployee{})
		env.dispatch(t, adminID, dialog.AddEmployeeToDepartment{ID: deptID})

		_, state := env.dispatch(t, adminID, dialog.ResetCommand{})
		assert.Equal(t, dialog.StateMainMenu, state)

		// Free text at the main menu is dropped instead of feeding the
		// abandoned draft.
		resp, state := env.dispatch(t, adminID, dialog.TextInput{Text: "C. Sidorov"})
		assert.Equal(t, dialog.StateMainMenu, state)
		assert.True(t, resp.Empty())

		count, err := env.store.Employees().CountByDepartment(ctx, deptID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("shortcut without departments returns home", func(t *testing.T) {
		empty := newTestEnv(t)
		empty.dispatch(t, adminID, dialog.ResetCommand{})
		resp, state := empty.dispatch(t, adminID, dialog.AddEmployee{})
		assert.Equal(t, dialog.StateMainMenu, state)
		assert.Contains(t, resp.Text, "create one first")
	})
}

func TestDeleteDepartmentFlow(t *testing.T) {
	ctx := context.Background()

	armDelete := func(t *testing.T, env *testEnv, deptID int64) string {
		t.Helper()
		env.dispatch(t, adminID, dialog.ListDepartments{Page: 1})
		env.dispatch(t, adminID, dialog.SelectDepartment{ID: deptID})
		env.dispatch(t, adminID, dialog.EditDepartment{ID: deptID})
		resp, state := env.dispatch(t, adminID, dialog.DeleteDepartment{ID: deptID})
		require.Equal(t, dialog.StateConfirmDelete, state)
		match := confirmCodeRe.FindStringSubmatch(resp.Text)
		require.Len(t, match, 2, "confirmation prompt must carry the code")
		return match[1]
	}

	t.Run("wrong code aborts and keeps the rows", func(t *testing.T) {
		env := newTestEnv(t)
		deptID := env.createDepartment(t, "IT")
		code := armDelete(t, env, deptID)

		wrong := "0000"
		if wrong == code {
			wrong = "0001"
		}
		resp, state := env.dispatch(t, adminID, dialog.TextInput{Text: wrong})
		assert.Equal(t, dialog.StateMainMenu, state)
		assert.Contains(t, resp.Text, "Wrong confirmation code")
		assert.Equal(t, int64(1), env.departmentCount(t))

		// The stale code is dead after the abort.
		code2 := armDelete(t, env, deptID)
		assert.NotEqual(t, "", code2)
	})

	t.Run("correct code cascades", func(t *testing.T) {
		env := newTestEnv(t)
		deptID := env.createDepartment(t, "IT")

		env.dispatch(t, adminID, dialog.AddEmployee{})
		env.dispatch(t, adminID, dialog.AddEmployeeToDepartment{ID: deptID})
		env.dispatch(t, adminID, dialog.TextInput{Text: "A. Ivanov"})
		env.dispatch(t, adminID, dialog.TextInput{Text: "15.05.1990"})
		env.dispatch(t, adminID, dialog.TextInput{Text: "skip"})

		code := armDelete(t, env, deptID)
		resp, state := env.dispatch(t, adminID, dialog.TextInput{Text: code})
		assert.Equal(t, dialog.StateMainMenu, state)
		assert.Contains(t, resp.Text, "deleted along with 1 employee")

		assert.Zero(t, env.departmentCount(t))
		count, err := env.store.Employees().CountByDepartment(ctx, deptID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("cancel returns to the department view", func(t *testing.T) {
		env := newTestEnv(t)
		deptID := env.createDepartment(t, "IT")
		armDelete(t, env, deptID)

		resp, state := env.dispatch(t, adminID, dialog.SelectDepartment{ID: deptID})
		assert.Equal(t, dialog.StateViewEmployees, state)
		assert.Contains(t, resp.Text, "Department: IT")
		assert.Equal(t, int64(1), env.departmentCount(t))
	})
}

func TestDeleteEmployeeFlow(t *testing.T) {
	env := newTestEnv(t)
	deptID := env.createDepartment(t, "IT")
	ctx := context.Background()

	env.dispatch(t, adminID, dialog.AddEmployee{})
	env.dispatch(t, adminID, dialog.AddEmployeeToDepartment{ID: deptID})
	env.dispatch(t, adminID, dialog.TextInput{Text: "A. Ivanov"})
	env.dispatch(t, adminID, dialog.TextInput{Text: "15.05.1990"})
	env.dispatch(t, adminID, dialog.TextInput{Text: "skip"})

	items, err := env.store.Employees().ListByDepartment(ctx, deptID, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	empID := items[0].ID

	env.dispatch(t, adminID, dialog.ListDepartments{Page: 1})
	env.dispatch(t, adminID, dialog.SelectDepartment{ID: deptID})
	env.dispatch(t, adminID, dialog.SelectEmployee{ID: empID})
	resp, state := env.dispatch(t, adminID, dialog.DeleteEmployee{ID: empID})
	require.Equal(t, dialog.StateConfirmDelete, state)

	match := confirmCodeRe.FindStringSubmatch(resp.Text)
	require.Len(t, match, 2)

	resp, state = env.dispatch(t, adminID, dialog.TextInput{Text: match[1]})
	assert.Equal(t, dialog.StateMainMenu, state)
	assert.Contains(t, resp.Text, "Employee deleted")

	count, err := env.store.Employees().CountByDepartment(ctx, deptID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBrowseAndEditFlows(t *testing.T) {
	env := newTestEnv(t)
	deptID := env.createDepartment(t, "IT")
	ctx := context.Background()

	env.dispatch(t, adminID, dialog.AddEmployee{})
	env.dispatch(t, adminID, dialog.AddEmployeeToDepartment{ID: deptID})
	env.dispatch(t, adminID, dialog.TextInput{Text: "A. Ivanov"})
	env.dispatch(t, adminID, dialog.TextInput{Text: "15.05.1990"})
	env.dispatch(t, adminID, dialog.TextInput{Text: "skip"})

	items, err := env.store.Employees().ListByDepartment(ctx, deptID, 0, 10)
	require.NoError(t, err)
	empID := items[0].ID

	t.Run("viewer browses but sees no admin actions", func(t *testing.T) {
		env.dispatch(t, viewerID, dialog.ResetCommand{})
		resp, state := env.dispatch(t, viewerID, dialog.ListDepartments{Page: 1})
		assert.Equal(t, dialog.StateViewDepartments, state)
		assert.Contains(t, resp.Text, "Departments")

		resp, state = env.dispatch(t, viewerID, dialog.SelectDepartment{ID: deptID})
		assert.Equal(t, dialog.StateViewEmployees, state)
		for _, row := range resp.Keyboard {
			for _, btn := range row {
				assert.NotEqual(t, dialog.EditDepartment{ID: deptID}, btn.Event)
			}
		}

		resp, state = env.dispatch(t, viewerID, dialog.SelectEmployee{ID: empID})
		assert.Equal(t, dialog.StateViewEmployeeDetails, state)
		assert.Contains(t, resp.Text, "A. Ivanov")

		// Forged admin events are denied without a state change.
		resp, state = env.dispatch(t, viewerID, dialog.EditEmployee{ID: empID})
		assert.Equal(t, dialog.StateViewEmployeeDetails, state)
		assert.Equal(t, "Access denied", resp.Notice)
	})

	t.Run("rename department", func(t *testing.T) {
		env.dispatch(t, adminID, dialog.ResetCommand{})
		env.dispatch(t, adminID, dialog.ListDepartments{Page: 1})
		env.dispatch(t, adminID, dialog.SelectDepartment{ID: deptID})
		env.dispatch(t, adminID, dialog.EditDepartment{ID: deptID})
		_, state := env.dispatch(t, adminID, dialog.RenameDepartment{ID: deptID})
		require.Equal(t, dialog.StateEditDepartmentName, state)

		resp, state := env.dispatch(t, adminID, dialog.TextInput{Text: "Engineering"})
		assert.Equal(t, dialog.StateViewEmployees, state)
		assert.Contains(t, resp.Text, "renamed")

		dept, err := env.svc.GetDepartment(ctx, deptID)
		require.NoError(t, err)
		assert.Equal(t, "Engineering", dept.Name)
	})

	t.Run("edit employee name and toggle head", func(t *testing.T) {
		env.dispatch(t, adminID, dialog.SelectEmployee{ID: empID})
		env.dispatch(t, adminID, dialog.EditEmployee{ID: empID})
		_, state := env.dispatch(t, adminID, dialog.EditEmployeeName{ID: empID})
		require.Equal(t, dialog.StateEditEmployeeName, state)

		resp, state := env.dispatch(t, adminID, dialog.TextInput{Text: "A. Ivanova"})
		assert.Equal(t, dialog.StateViewEmployeeDetails, state)
		assert.Contains(t, resp.Text, "updated")

		env.dispatch(t, adminID, dialog.EditEmployee{ID: empID})
		resp, state = env.dispatch(t, adminID, dialog.ToggleEmployeeHead{ID: empID})
		assert.Equal(t, dialog.StateViewEmployeeDetails, state)
		assert.Contains(t, resp.Text, "Head of department")

		emp, err := env.svc.GetEmployee(ctx, empID)
		require.NoError(t, err)
		assert.Equal(t, "A. Ivanova", emp.FullName)
		assert.True(t, emp.IsHead)
	})

	t.Run("stale reference aborts to the main menu", func(t *testing.T) {
		env.dispatch(t, adminID, dialog.OpenMainMenu{})
		env.dispatch(t, adminID, dialog.ListDepartments{Page: 1})
		resp, state := env.dispatch(t, adminID, dialog.SelectDepartment{ID: 9999})
		assert.Equal(t, dialog.StateMainMenu, state)
		assert.Contains(t, resp.Text, "no longer exists")
	})
}

func TestUnmatchedEventsAreDropped(t *testing.T) {
	env := newTestEnv(t)
	env.dispatch(t, adminID, dialog.ResetCommand{})

	// A callback that belongs to a different state does nothing.
	resp, state := env.dispatch(t, adminID, dialog.RenameDepartment{ID: 1})
	assert.Equal(t, dialog.StateMainMenu, state)
	assert.True(t, resp.Empty())

	// Free text at the main menu is dropped too.
	resp, state = env.dispatch(t, adminID, dialog.TextInput{Text: "hello"})
	assert.Equal(t, dialog.StateMainMenu, state)
	assert.True(t, resp.Empty())
}
