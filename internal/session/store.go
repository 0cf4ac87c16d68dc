// Package session owns the authentication session: durable storage of the
// bearer token and user identity, and the credential exchange against the
// service. No other package touches the stored entries directly.
package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"taskdo/internal/config"
)

// User is the authenticated user's identity as persisted locally.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the result of a successful credential exchange.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Store persists the session as two independent entries under the config
// directory: a raw token file and a JSON user file. Keeping them separate
// lets authentication be checked without deserializing the user.
type Store struct {
	dir       string
	tokenPath string
	userPath  string
}

// NewStore creates a store rooted at the config directory.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		dir:       cfg.Dir,
		tokenPath: cfg.TokenPath(),
		userPath:  cfg.UserPath(),
	}
}

// Token returns the stored bearer token, or "" when absent or unreadable.
func (s *Store) Token() string {
	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// IsAuthenticated reports whether a non-empty token entry exists. No expiry
// check is performed client-side.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// User returns the stored user identity. A missing or corrupt entry reads
// as nil, never an error.
func (s *Store) User() *User {
	data, err := os.ReadFile(s.userPath)
	if err != nil {
		return nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil
	}
	return &u
}

// SetToken stores the bearer token. Allows an external credential source to
// inject a session without going through login/signup.
func (s *Store) SetToken(token string) error {
	return s.write(s.tokenPath, []byte(token))
}

// SetUser stores the user identity.
func (s *Store) SetUser(u User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.write(s.userPath, data)
}

// SetSession stores user and token as a pair. The user entry is written
// first: authentication is keyed on the token, so a failure between the two
// writes never leaves an authenticated session without its user half
// observable as complete.
func (s *Store) SetSession(sess Session) error {
	if err := s.SetUser(sess.User); err != nil {
		return err
	}
	return s.SetToken(sess.Token)
}

// Clear removes both entries. Clearing an already-clear session is a no-op.
func (s *Store) Clear() error {
	var errs []error
	for _, path := range []string{s.tokenPath, s.userPath} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// write replaces an entry in one whole-file operation (temp file + rename),
// mode 0600.
func (s *Store) write(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
