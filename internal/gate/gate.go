// Package gate guards protected entry points on session state. It reads the
// session once at entry time and redirects unauthenticated callers,
// remembering the originally requested destination.
package gate

import "sync"

// State is the gate's view of the session.
type State int

const (
	// StateUnknown is the initial state, before the first check.
	StateUnknown State = iota

	// StateAuthenticated means the last check found a session.
	StateAuthenticated

	// StateUnauthenticated means the last check found none.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Checker reads session state. Satisfied by session.Store.
type Checker interface {
	IsAuthenticated() bool
}

// Navigator receives the redirect to the login view.
type Navigator interface {
	RedirectToLogin()
}

// Gate is the access gate. One gate serves one process; the recorded
// destination is ephemeral and does not outlive it.
type Gate struct {
	checker Checker
	nav     Navigator

	mu       sync.Mutex
	state    State
	returnTo string
}

// New creates a gate over the given session checker and navigator.
func New(checker Checker, nav Navigator) *Gate {
	return &Gate{checker: checker, nav: nav}
}

// Allow performs the entry check for a protected destination. The session is
// read exactly once; if absent, the destination is recorded, the navigator
// is sent to the login view, and false is returned. There is no re-check
// after this transition: revocation while the destination is already active
// is only caught by the next request's 401.
func (g *Gate) Allow(destination string) bool {
	g.mu.Lock()
	if g.checker.IsAuthenticated() {
		g.state = StateAuthenticated
		g.mu.Unlock()
		return true
	}
	g.state = StateUnauthenticated
	g.returnTo = destination
	nav := g.nav
	g.mu.Unlock()

	if nav != nil {
		nav.RedirectToLogin()
	}
	return false
}

// State returns the result of the most recent check.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// ReturnTo returns the destination recorded by the last refused check, so
// the caller can be sent back there after authenticating.
func (g *Gate) ReturnTo() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.returnTo
}

// ClearReturnTo discards the recorded destination.
func (g *Gate) ClearReturnTo() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.returnTo = ""
}
