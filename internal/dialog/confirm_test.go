package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/org-directory-bot/pkg/util/errorutil"
)

func TestGate_Begin(t *testing.T) {
	gate := NewGate(4)
	sess := newSession(1)

	code := gate.Begin(sess, TargetDepartment, 42)

	require.Len(t, code, 4)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9', "code must be numeric, got %q", code)
	}
	require.NotNil(t, sess.Pending)
	assert.Equal(t, TargetDepartment, sess.Pending.Kind)
	assert.Equal(t, int64(42), sess.Pending.ID)
	assert.Equal(t, code, sess.Pending.Code)
}

func TestGate_BeginReplacesPrevious(t *testing.T) {
	gate := NewGate(6)
	sess := newSession(1)

	first := gate.Begin(sess, TargetDepartment, 1)
	second := gate.Begin(sess, TargetEmployee, 2)

	assert.Equal(t, second, sess.Pending.Code)
	assert.Equal(t, TargetEmployee, sess.Pending.Kind)

	// The first code is dead once a new confirmation is armed.
	if first != second {
		_, err := gate.Check(sess, first)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConfirmMismatch))
	}
}

func TestGate_Check(t *testing.T) {
	t.Run("matching code returns the pending target", func(t *testing.T) {
		gate := NewGate(4)
		sess := newSession(1)
		code := gate.Begin(sess, TargetEmployee, 7)

		pending, err := gate.Check(sess, code)

		require.NoError(t, err)
		assert.Equal(t, TargetEmployee, pending.Kind)
		assert.Equal(t, int64(7), pending.ID)
		assert.Nil(t, sess.Pending, "codes are single-use")
	})

	t.Run("mismatch clears the pending target", func(t *testing.T) {
		gate := NewGate(4)
		sess := newSession(1)
		code := gate.Begin(sess, TargetDepartment, 7)

		_, err := gate.Check(sess, code+"0")

		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConfirmMismatch))
		assert.Nil(t, sess.Pending)

		// The original code no longer works either.
		_, err = gate.Check(sess, code)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConfirmMismatch))
	})

	t.Run("check without pending target fails", func(t *testing.T) {
		gate := NewGate(4)
		sess := newSession(1)

		_, err := gate.Check(sess, "1234")

		assert.True(t, apperrors.HasCode(err, apperrors.CodeConfirmMismatch))
	})
}

func TestGate_DefaultLength(t *testing.T) {
	gate := NewGate(0)
	sess := newSession(1)
	assert.Len(t, gate.Begin(sess, TargetDepartment, 1), 4)
}
