package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Demo credentials seeded into every FakeServer.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
	DemoName     = "Demo User"
)

// serverTask is the wire shape of a task as the service sends it.
type serverTask struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date,omitempty"`
	UserID      string  `json:"user_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type serverUser struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// FakeServer is an in-process HTTP server speaking the task service's wire
// protocol: enveloped responses on the auth endpoints, raw JSON on the task
// endpoints, bearer tokens, 401 for missing or revoked credentials.
type FakeServer struct {
	mu     sync.Mutex
	srv    *httptest.Server
	users  map[string]*serverUser // email -> user
	tokens map[string]string      // token -> user id
	tasks  map[string][]*serverTask
	seq    int
}

// NewFakeServer starts a fake task service seeded with the demo user. The
// server shuts down when the test finishes.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()
	f := &FakeServer{
		users:  make(map[string]*serverUser),
		tokens: make(map[string]string),
		tasks:  make(map[string][]*serverTask),
	}
	f.users[DemoEmail] = &serverUser{
		ID:       uuid.NewString(),
		Name:     DemoName,
		Email:    DemoEmail,
		Password: DemoPassword,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signup", f.handleSignup)
	mux.HandleFunc("POST /api/auth/login", f.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", f.handleLogout)
	mux.HandleFunc("GET /api/tasks", f.handleListTasks)
	mux.HandleFunc("POST /api/tasks", f.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", f.handleGetTask)
	mux.HandleFunc("PUT /api/tasks/{id}", f.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", f.handleDeleteTask)
	mux.HandleFunc("PATCH /api/tasks/{id}/complete", f.handleToggleTask)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

// URL returns the server's base URL.
func (f *FakeServer) URL() string {
	return f.srv.URL
}

// IssueToken mints a valid token for the demo user without going through the
// login endpoint.
func (f *FakeServer) IssueToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := uuid.NewString()
	f.tokens[token] = f.users[DemoEmail].ID
	return token
}

// RevokeToken invalidates a token so the next authenticated request gets 401.
func (f *FakeServer) RevokeToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

// SeedTask creates a task owned by the demo user, bypassing HTTP.
func (f *FakeServer) SeedTask(title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.stamp()
	task := &serverTask{
		ID:        uuid.NewString(),
		Title:     title,
		Priority:  "medium",
		UserID:    f.users[DemoEmail].ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	userID := f.users[DemoEmail].ID
	f.tasks[userID] = append(f.tasks[userID], task)
	return task.ID
}

// TaskCount returns how many tasks the demo user has.
func (f *FakeServer) TaskCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks[f.users[DemoEmail].ID])
}

// stamp returns a strictly increasing RFC 3339 timestamp. Callers must hold
// the lock.
func (f *FakeServer) stamp() string {
	f.seq++
	return fakeEpoch.Add(time.Duration(f.seq) * time.Second).Format(time.RFC3339)
}

// authenticate resolves the bearer token to a user id, or "" when the token
// is absent or revoked. Callers must hold the lock.
func (f *FakeServer) authenticate(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return ""
	}
	return f.tokens[token]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEnvelope writes the wrapped success format used by the auth endpoints.
func writeEnvelope(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

// writeEnvelopeError writes the wrapped failure format.
func writeEnvelopeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   map[string]any{"code": code, "message": message},
	})
}

// writeError writes the raw error format used by the task endpoints.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func (f *FakeServer) sessionPayload(u *serverUser, token string) map[string]any {
	return map[string]any{
		"user": map[string]any{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
		},
		"token": token,
	}
}

func (f *FakeServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeEnvelopeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.users[body.Email]; exists {
		writeEnvelopeError(w, http.StatusBadRequest, "EMAIL_EXISTS", "email already registered")
		return
	}

	u := &serverUser{
		ID:       uuid.NewString(),
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	}
	f.users[body.Email] = u
	token := uuid.NewString()
	f.tokens[token] = u.ID
	writeEnvelope(w, http.StatusCreated, f.sessionPayload(u, token))
}

func (f *FakeServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeEnvelopeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[body.Email]
	if !ok || u.Password != body.Password {
		// Bad credentials are a 401, same as a bad token.
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	token := uuid.NewString()
	f.tokens[token] = u.ID
	writeEnvelope(w, http.StatusOK, f.sessionPayload(u, token))
}

func (f *FakeServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.authenticate(r) == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	delete(f.tokens, token)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	userID := f.authenticate(r)
	if userID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	tasks := f.tasks[userID]
	out := make([]serverTask, len(tasks))
	for i, t := range tasks {
		out[i] = *t
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	userID := f.authenticate(r)
	if userID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var body struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		Priority    string  `json:"priority"`
		DueDate     *string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Title) == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "title is required")
		return
	}
	if body.Priority == "" {
		body.Priority = "medium"
	}

	now := f.stamp()
	task := &serverTask{
		ID:          uuid.NewString(),
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks[userID] = append(f.tasks[userID], task)
	writeJSON(w, http.StatusCreated, task)
}

// findTask looks up a task for the user. Callers must hold the lock.
func (f *FakeServer) findTask(userID, id string) (int, *serverTask) {
	for i, t := range f.tasks[userID] {
		if t.ID == id {
			return i, t
		}
	}
	return -1, nil
}

func (f *FakeServer) handleGetTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	userID := f.authenticate(r)
	if userID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	_, task := f.findTask(userID, r.PathValue("id"))
	if task == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (f *FakeServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	userID := f.authenticate(r)
	if userID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	_, task := f.findTask(userID, r.PathValue("id"))
	if task == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "task not found")
		return
	}

	// Pointer fields distinguish "absent" from "set to empty": absent fields
	// stay untouched.
	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
		Priority    *string `json:"priority"`
		DueDate     *string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if body.Title != nil {
		task.Title = *body.Title
	}
	if body.Description != nil {
		task.Description = body.Description
	}
	if body.Completed != nil {
		task.Completed = *body.Completed
	}
	if body.Priority != nil {
		task.Priority = *body.Priority
	}
	if body.DueDate != nil {
		task.DueDate = body.DueDate
	}
	task.UpdatedAt = f.stamp()
	writeJSON(w, http.StatusOK, task)
}

func (f *FakeServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	userID := f.authenticate(r)
	if userID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	i, task := f.findTask(userID, r.PathValue("id"))
	if task == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "task not found")
		return
	}
	f.tasks[userID] = append(f.tasks[userID][:i], f.tasks[userID][i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeServer) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	userID := f.authenticate(r)
	if userID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	_, task := f.findTask(userID, r.PathValue("id"))
	if task == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "task not found")
		return
	}
	task.Completed = !task.Completed
	task.UpdatedAt = f.stamp()
	writeJSON(w, http.StatusOK, task)
}
