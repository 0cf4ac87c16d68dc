package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"taskdo/internal/api"
)

// Default failure messages per endpoint, used when the service error payload
// carries no message of its own.
const (
	loginFailedMessage  = "login failed, check your credentials"
	signupFailedMessage = "signup failed, try again"
)

// Manager handles credential exchange against the auth endpoints and keeps
// the durable store in sync. It talks to the service through the transport
// layer only.
type Manager struct {
	api    *api.Client
	store  *Store
	debugf func(format string, args ...any)
}

// NewManager creates a session manager.
func NewManager(client *api.Client, store *Store) *Manager {
	return &Manager{
		api:    client,
		store:  store,
		debugf: func(string, ...any) {},
	}
}

// SetDebugf installs a debug log function. Swallowed advisory failures
// (the remote logout call) are reported through it.
func (m *Manager) SetDebugf(f func(format string, args ...any)) {
	if f != nil {
		m.debugf = f
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session and persists it.
// No bearer token is attached to the request; none exists yet.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	var sess Session
	err := m.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body:   loginRequest{Email: email, Password: password},
		NoAuth: true,
	}, &sess)
	if err != nil {
		return Session{}, withDefaultMessage(err, loginFailedMessage)
	}
	if err := m.store.SetSession(sess); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// Signup registers a new account and persists the resulting session.
func (m *Manager) Signup(ctx context.Context, name, email, password string) (Session, error) {
	var sess Session
	err := m.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/signup",
		Body:   signupRequest{Name: name, Email: email, Password: password},
		NoAuth: true,
	}, &sess)
	if err != nil {
		return Session{}, withDefaultMessage(err, signupFailedMessage)
	}
	if err := m.store.SetSession(sess); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// Logout tears the session down. The remote call is advisory: a network or
// service failure is logged and swallowed, and local teardown proceeds
// regardless, so the user can always log out while the service is
// unreachable. The returned error only ever concerns local teardown.
func (m *Manager) Logout(ctx context.Context) error {
	if m.store.Token() != "" {
		err := m.api.Do(ctx, api.Request{
			Method: http.MethodPost,
			Path:   "/api/auth/logout",
		}, nil)
		if err != nil {
			m.debugf("logout request failed: %v", err)
		}
	}
	return m.store.Clear()
}

// CurrentUser returns the persisted user, or nil when absent or unparsable.
func (m *Manager) CurrentUser() *User {
	return m.store.User()
}

// CurrentToken returns the persisted bearer token, or "".
func (m *Manager) CurrentToken() string {
	return m.store.Token()
}

// IsAuthenticated reports whether a non-empty token is persisted.
func (m *Manager) IsAuthenticated() bool {
	return m.store.IsAuthenticated()
}

// SetToken injects a token from an external credential source.
func (m *Manager) SetToken(token string) error {
	return m.store.SetToken(token)
}

// SetUser injects a user from an external credential source.
func (m *Manager) SetUser(u User) error {
	return m.store.SetUser(u)
}

// withDefaultMessage substitutes the endpoint's generic message when the
// failure carries no service-declared one. Codes declared by the service
// pass through with their own message.
func withDefaultMessage(err error, defaultMessage string) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case api.CodeUnauthorized, api.CodeUnknownError, api.CodeNetworkError, api.CodeParseError:
		return &api.Error{
			StatusCode: apiErr.StatusCode,
			Code:       apiErr.Code,
			Message:    defaultMessage,
			Details:    apiErr.Details,
		}
	}
	return err
}
