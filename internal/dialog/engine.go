package dialog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/org-directory-bot/internal/observability"
	apperrors "github.com/spec-kit/org-directory-bot/pkg/util/errorutil"
)

// Handler processes one event for one session and decides the next state.
// Handlers return domain errors instead of invoking each other; the engine
// owns every state jump, including error recovery.
type Handler func(ctx context.Context, sess *Session, ev Event) (Response, State, error)

// Route pairs an event matcher with a handler. Routes are tried in
// registration order; the first match wins.
type Route struct {
	name       string
	privileged bool
	match      func(Event) bool
	handle     Handler
}

// On builds a route matching one event variant.
func On[E Event](h func(ctx context.Context, sess *Session, ev E) (Response, State, error)) Route {
	var zero E
	return Route{
		name: EventName(zero),
		match: func(ev Event) bool {
			_, ok := ev.(E)
			return ok
		},
		handle: func(ctx context.Context, sess *Session, ev Event) (Response, State, error) {
			return h(ctx, sess, ev.(E))
		},
	}
}

// Admin marks a route as privileged: non-admins get a visible denial and no
// state change.
func Admin(r Route) Route {
	r.privileged = true
	return r
}

// Engine is the conversation state machine. It owns every session and
// serializes dispatch per user; events for different users run concurrently.
type Engine struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	routes map[State][]Route
	// entry routes are matched before the current state's table; they model
	// the reset command and the add-employee shortcut, reachable everywhere.
	entry []Route
	home  Handler

	isAdmin func(userID int64) bool
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewEngine constructs an engine with no routes registered.
func NewEngine(isAdmin func(userID int64) bool, logger *zap.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		sessions: make(map[int64]*Session),
		routes:   make(map[State][]Route),
		isAdmin:  isAdmin,
		logger:   logger,
		metrics:  metrics,
	}
}

// Entry registers routes reachable from any state.
func (e *Engine) Entry(routes ...Route) {
	e.entry = append(e.entry, routes...)
}

// At registers routes for one state.
func (e *Engine) At(state State, routes ...Route) {
	e.routes[state] = append(e.routes[state], routes...)
}

// SetHome installs the handler used to render the main menu when the engine
// aborts a flow (reset, not-found, internal errors, confirmation mismatch).
func (e *Engine) SetHome(h Handler) {
	e.home = h
}

// StateOf reports the current state of a user's session.
func (e *Engine) StateOf(userID int64) State {
	sess := e.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.State
}

// Dispatch routes one inbound event. It blocks until no other event for the
// same user is in flight, applies the matched handler, records the returned
// next state, and maps any error to the recovery policy. Unmatched events
// are dropped with no state change.
func (e *Engine) Dispatch(ctx context.Context, userID int64, ev Event) (Response, State, error) {
	sess := e.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	route, ok := e.findRoute(sess.State, ev)
	if !ok {
		e.logger.Debug("event dropped: no route",
			zap.Int64("user_id", userID),
			zap.String("state", string(sess.State)),
			zap.String("event", EventName(ev)))
		return Response{}, sess.State, nil
	}

	if route.privileged && !e.isAdmin(userID) {
		e.metrics.RecordError(apperrors.CodeForbidden)
		e.logger.Info("privileged action denied",
			zap.Int64("user_id", userID),
			zap.String("event", EventName(ev)))
		return Response{Notice: "Access denied", Alert: true}, sess.State, nil
	}

	e.metrics.RecordEvent(string(sess.State), EventName(ev))

	resp, next, err := route.handle(ctx, sess, ev)
	if err != nil {
		resp, next = e.recoverError(ctx, sess, ev, err)
	}
	sess.State = next
	return resp, next, nil
}

func (e *Engine) session(userID int64) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	sess, ok := e.sessions[userID]
	if !ok {
		sess = newSession(userID)
		e.sessions[userID] = sess
	}
	return sess
}

func (e *Engine) findRoute(state State, ev Event) (Route, bool) {
	for _, route := range e.entry {
		if route.match(ev) {
			return route, true
		}
	}
	for _, route := range e.routes[state] {
		if route.match(ev) {
			return route, true
		}
	}
	return Route{}, false
}

// recoverError maps a handler error to a response and next state per the
// error taxonomy: validation problems re-prompt the same state, denials keep
// the state, everything else aborts to the main menu.
func (e *Engine) recoverError(ctx context.Context, sess *Session, ev Event, err error) (Response, State) {
	domainErr := apperrors.ToDomainError(err)
	e.metrics.RecordError(domainErr.Code)

	switch domainErr.Code {
	case apperrors.CodeValidation, apperrors.CodeDuplicateName:
		return Response{Text: "❌ " + domainErr.Message}, sess.State
	case apperrors.CodeForbidden:
		return Response{Notice: "Access denied", Alert: true}, sess.State
	case apperrors.CodeConfirmMismatch:
		return e.abort(ctx, sess, ev, "❌ Wrong confirmation code. The deletion was cancelled.")
	case apperrors.CodeNotFound:
		return e.abort(ctx, sess, ev, "The selected record no longer exists.")
	default:
		e.logger.Error("handler failed",
			zap.Int64("user_id", sess.UserID),
			zap.String("state", string(sess.State)),
			zap.String("event", EventName(ev)),
			zap.Error(domainErr))
		return e.abort(ctx, sess, ev, "⚠️ Something went wrong. Please try again later.")
	}
}

func (e *Engine) abort(ctx context.Context, sess *Session, ev Event, text string) (Response, State) {
	sess.ClearFlow()
	if e.home == nil {
		return Response{Text: text}, StateMainMenu
	}
	resp, next, err := e.home(ctx, sess, ev)
	if err != nil {
		return Response{Text: text}, StateMainMenu
	}
	if resp.Text != "" {
		resp.Text = text + "\n\n" + resp.Text
	} else {
		resp.Text = text
	}
	return resp, next
}
