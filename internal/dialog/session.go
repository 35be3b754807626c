package dialog

import (
	"sync"
	"time"
)

// TargetKind discriminates pending-delete targets.
type TargetKind string

const (
	TargetDepartment TargetKind = "department"
	TargetEmployee   TargetKind = "employee"
)

// EmployeeDraft accumulates the fields of a multi-step employee entry. The
// single store write happens only at the final step.
type EmployeeDraft struct {
	DepartmentID int64
	FullName     string
	BirthDate    time.Time
	HasBirthDate bool
	ExternalID   *int64
}

// PendingDelete holds a confirmation-gated destructive operation. It lives
// only while the session is in CONFIRM_DELETE.
type PendingDelete struct {
	Kind TargetKind
	ID   int64
	Code string
}

// Session is the per-user transient dialogue context. It is created lazily on
// first interaction, mutated only by engine handlers while the session lock
// is held, and never persisted.
type Session struct {
	mu sync.Mutex

	UserID int64
	State  State

	// Last-selected ids for back navigation; plain ids looked up fresh on
	// each use since store content can change between turns.
	DepartmentID int64
	EmployeeID   int64
	// Page the user was last viewing in the department listing.
	Page int

	Draft   *EmployeeDraft
	Pending *PendingDelete
}

func newSession(userID int64) *Session {
	return &Session{UserID: userID, State: StateMainMenu, Page: 1}
}

// ClearFlow discards in-flight scratch state: the employee draft and any
// pending confirmation. Called on commit, reset, and abort-class errors.
func (s *Session) ClearFlow() {
	s.Draft = nil
	s.Pending = nil
}
