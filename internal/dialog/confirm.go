package dialog

import (
	"crypto/rand"
	"math/big"

	apperrors "github.com/spec-kit/org-directory-bot/pkg/util/errorutil"
)

// Gate guards destructive operations with one-time numeric codes. Codes are
// generated fresh per confirmation request, stored only in the session, and
// compared by exact string equality.
type Gate struct {
	codeLen int
}

// NewGate creates a gate producing codes of the given length.
func NewGate(codeLen int) *Gate {
	if codeLen <= 0 {
		codeLen = 4
	}
	return &Gate{codeLen: codeLen}
}

// Begin records a pending delete target on the session and returns the fresh
// confirmation code the user must echo back.
func (g *Gate) Begin(sess *Session, kind TargetKind, id int64) string {
	code := g.newCode()
	sess.Pending = &PendingDelete{Kind: kind, ID: id, Code: code}
	return code
}

// Check validates the user's input against the pending code. The pending
// target is cleared unconditionally: codes are single-use, and a mismatch
// aborts the delete flow rather than re-prompting.
func (g *Gate) Check(sess *Session, input string) (PendingDelete, error) {
	pending := sess.Pending
	sess.Pending = nil
	if pending == nil || input != pending.Code {
		return PendingDelete{}, apperrors.NewConfirmMismatch()
	}
	return *pending, nil
}

func (g *Gate) newCode() string {
	digits := make([]byte, g.codeLen)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand failure is unrecoverable for code generation
			panic(err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits)
}
