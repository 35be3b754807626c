package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/org-directory-bot/internal/observability"
	apperrors "github.com/spec-kit/org-directory-bot/pkg/util/errorutil"
)

func newTestEngine(isAdmin func(int64) bool) *Engine {
	return NewEngine(isAdmin, zap.NewNop(), observability.NewMetrics())
}

func everyoneAdmin(int64) bool { return true }
func nobodyAdmin(int64) bool   { return false }

func staticHandler(text string, next State) Handler {
	return func(ctx context.Context, sess *Session, ev Event) (Response, State, error) {
		return Response{Text: text}, next, nil
	}
}

func TestDispatch_RoutesByState(t *testing.T) {
	engine := newTestEngine(everyoneAdmin)
	engine.At(StateMainMenu, On(func(ctx context.Context, sess *Session, ev ListDepartments) (Response, State, error) {
		return Response{Text: "listing"}, StateViewDepartments, nil
	}))
	engine.At(StateViewDepartments, On(func(ctx context.Context, sess *Session, ev OpenMainMenu) (Response, State, error) {
		return Response{Text: "home"}, StateMainMenu, nil
	}))

	resp, state, err := engine.Dispatch(context.Background(), 1, ListDepartments{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, "listing", resp.Text)
	assert.Equal(t, StateViewDepartments, state)
	assert.Equal(t, StateViewDepartments, engine.StateOf(1))

	// The same event has no route in the new state and is dropped.
	resp, state, err = engine.Dispatch(context.Background(), 1, ListDepartments{Page: 1})
	require.NoError(t, err)
	assert.True(t, resp.Empty())
	assert.Equal(t, StateViewDepartments, state)
}

func TestDispatch_SessionsAreIndependent(t *testing.T) {
	engine := newTestEngine(everyoneAdmin)
	engine.At(StateMainMenu, On(func(ctx context.Context, sess *Session, ev ListDepartments) (Response, State, error) {
		return Response{}, StateViewDepartments, nil
	}))

	_, _, err := engine.Dispatch(context.Background(), 1, ListDepartments{Page: 1})
	require.NoError(t, err)

	assert.Equal(t, StateViewDepartments, engine.StateOf(1))
	assert.Equal(t, StateMainMenu, engine.StateOf(2))
}

func TestDispatch_EntryBeatsStateTable(t *testing.T) {
	engine := newTestEngine(everyoneAdmin)
	engine.Entry(On(func(ctx context.Context, sess *Session, ev ResetCommand) (Response, State, error) {
		return Response{Text: "entry"}, StateMainMenu, nil
	}))
	engine.At(StateAddDepartment, On(func(ctx context.Context, sess *Session, ev ResetCommand) (Response, State, error) {
		return Response{Text: "state table"}, StateAddDepartment, nil
	}))

	sess := engine.session(1)
	sess.State = StateAddDepartment

	resp, state, err := engine.Dispatch(context.Background(), 1, ResetCommand{})
	require.NoError(t, err)
	assert.Equal(t, "entry", resp.Text)
	assert.Equal(t, StateMainMenu, state)
}

func TestDispatch_PrivilegedDenial(t *testing.T) {
	engine := newTestEngine(nobodyAdmin)
	called := false
	engine.At(StateMainMenu, Admin(On(func(ctx context.Context, sess *Session, ev AddDepartment) (Response, State, error) {
		called = true
		return Response{}, StateAddDepartment, nil
	})))

	resp, state, err := engine.Dispatch(context.Background(), 1, AddDepartment{})
	require.NoError(t, err)
	assert.False(t, called, "handler must not run for non-admins")
	assert.Equal(t, "Access denied", resp.Notice)
	assert.True(t, resp.Alert)
	assert.Equal(t, StateMainMenu, state)
}

func TestDispatch_ErrorRecovery(t *testing.T) {
	failWith := func(err error) Handler {
		return func(ctx context.Context, sess *Session, ev Event) (Response, State, error) {
			return Response{}, sess.State, err
		}
	}
	route := func(err error) Route {
		return On(func(ctx context.Context, sess *Session, ev TextInput) (Response, State, error) {
			return failWith(err)(ctx, sess, ev)
		})
	}

	t.Run("validation errors re-prompt the same state", func(t *testing.T) {
		engine := newTestEngine(everyoneAdmin)
		engine.At(StateAddDepartment, route(apperrors.NewValidationError("name must not be empty", nil)))
		sess := engine.session(1)
		sess.State = StateAddDepartment
		sess.Draft = &EmployeeDraft{}

		resp, state, err := engine.Dispatch(context.Background(), 1, TextInput{Text: ""})
		require.NoError(t, err)
		assert.Equal(t, StateAddDepartment, state)
		assert.Equal(t, "❌ name must not be empty", resp.Text)
		assert.NotNil(t, sess.Draft, "re-prompts keep the flow alive")
	})

	t.Run("not found aborts to home and clears the flow", func(t *testing.T) {
		engine := newTestEngine(everyoneAdmin)
		engine.SetHome(staticHandler("🏠 Main menu:", StateMainMenu))
		engine.At(StateEditEmployeeName, route(apperrors.NewNotFound("employee", nil)))
		sess := engine.session(1)
		sess.State = StateEditEmployeeName
		sess.Draft = &EmployeeDraft{}

		resp, state, err := engine.Dispatch(context.Background(), 1, TextInput{Text: "X"})
		require.NoError(t, err)
		assert.Equal(t, StateMainMenu, state)
		assert.Contains(t, resp.Text, "no longer exists")
		assert.Contains(t, resp.Text, "Main menu")
		assert.Nil(t, sess.Draft)
	})

	t.Run("unexpected errors abort with a generic message", func(t *testing.T) {
		engine := newTestEngine(everyoneAdmin)
		engine.SetHome(staticHandler("🏠 Main menu:", StateMainMenu))
		engine.At(StateAddDepartment, route(errors.New("connection reset")))
		sess := engine.session(1)
		sess.State = StateAddDepartment

		resp, state, err := engine.Dispatch(context.Background(), 1, TextInput{Text: "IT"})
		require.NoError(t, err)
		assert.Equal(t, StateMainMenu, state)
		assert.Contains(t, resp.Text, "Something went wrong")
		assert.NotContains(t, resp.Text, "connection reset", "internal details stay out of chat")
	})

	t.Run("confirmation mismatch aborts", func(t *testing.T) {
		engine := newTestEngine(everyoneAdmin)
		engine.SetHome(staticHandler("🏠 Main menu:", StateMainMenu))
		engine.At(StateConfirmDelete, route(apperrors.NewConfirmMismatch()))
		sess := engine.session(1)
		sess.State = StateConfirmDelete
		sess.Pending = &PendingDelete{Kind: TargetDepartment, ID: 1, Code: "1234"}

		resp, state, err := engine.Dispatch(context.Background(), 1, TextInput{Text: "0000"})
		require.NoError(t, err)
		assert.Equal(t, StateMainMenu, state)
		assert.Contains(t, resp.Text, "cancelled")
		assert.Nil(t, sess.Pending)
	})
}
