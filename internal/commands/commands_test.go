package commands_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"taskdo/internal/api"
	"taskdo/internal/commands"
	"taskdo/internal/config"
	"taskdo/internal/exitcode"
	"taskdo/internal/service"
	"taskdo/internal/session"
	"taskdo/internal/testutil"
)

type nopNav struct{}

func (nopNav) RedirectToLogin() {}

// runCommand is a helper to run a command with FakeService. The session
// manager points at a dead address; task commands never touch it.
func runCommand(t *testing.T, cmd commands.Command, svc service.Service, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}
	store := session.NewStore(cfg)
	sess := session.NewManager(api.New("http://127.0.0.1:1", store, nopNav{}), store)

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, sess, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskdo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	// Check for key elements
	for _, want := range []string{"Usage:", "login", "list", "TASKDO_API_URL"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommandEmpty(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected empty message, got %q", stdout)
	}
}

func TestListCommandEmptyQuiet(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, svc, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
}

func TestListCommandNumbersInServerOrder(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("first")
	svc.AddTask("second")

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "   1  [ ] first\n   2  [ ] second\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommandBackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("boom")

	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: boom\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestListCommandUnauthorized(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = &api.Error{
		StatusCode: http.StatusUnauthorized,
		Code:       api.CodeUnauthorized,
		Message:    "authentication required",
	}

	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: authentication required\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}

	tasks, _ := svc.ListTasks(context.Background())
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	// Multi-word titles are joined from the positional args.
	if tasks[0].Title != "buy milk" {
		t.Errorf("expected title 'buy milk', got %q", tasks[0].Title)
	}
	if tasks[0].Priority != service.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", tasks[0].Priority)
	}
}

func TestAddCommandWithFlags(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	cmd.SetFlags("from the good bakery", "high", "2024-04-01")
	_, _, code := runCommand(t, cmd, svc, []string{"buy bread"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}

	tasks, _ := svc.ListTasks(context.Background())
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Description == nil || *task.Description != "from the good bakery" {
		t.Errorf("unexpected description: %v", task.Description)
	}
	if task.Priority != service.PriorityHigh {
		t.Errorf("expected priority high, got %q", task.Priority)
	}
	if task.DueDate == nil || *task.DueDate != "2024-04-01" {
		t.Errorf("unexpected due date: %v", task.DueDate)
	}
}

func TestAddCommandNoTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestAddCommandInvalidPriority(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	cmd.SetFlags("", "urgent", "")
	_, stderr, code := runCommand(t, cmd, svc, []string{"title"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid priority: urgent\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for show command
func TestShowCommandByNumber(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("first")
	svc.AddTask("second")

	cmd := &commands.ShowCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "title:     second") {
		t.Errorf("expected detail for 'second', got %q", stdout)
	}
}

func TestShowCommandByID(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("first")

	cmd := &commands.ShowCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{id}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "id:        "+id) {
		t.Errorf("expected detail for %s, got %q", id, stdout)
	}
}

func TestShowCommandNoRef(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ShowCmd{}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestShowCommandUnknownID(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ShowCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"no-such-id"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: no-such-id\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for done command
func TestDoneCommandToggles(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("flip me")

	cmd := &commands.DoneCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "done\n" {
		t.Errorf("expected 'done', got %q", stdout)
	}

	// Running it again reopens the task.
	stdout, _, code = runCommand(t, cmd, svc, []string{"1"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "reopened\n" {
		t.Errorf("expected 'reopened', got %q", stdout)
	}
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("doomed")
	svc.AddTask("survivor")

	cmd := &commands.RmCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}

	tasks, _ := svc.ListTasks(context.Background())
	if len(tasks) != 1 || tasks[0].Title != "survivor" {
		t.Errorf("expected only 'survivor' to remain, got %v", tasks)
	}
}

func TestRmCommandOutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("only one")

	cmd := &commands.RmCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number out of range: 5\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("old title")

	cmd := &commands.EditCmd{}
	cmd.SetField("title", "new title")
	cmd.SetField("completed", "true")
	stdout, _, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}

	task, _ := svc.GetTask(context.Background(), id)
	if task == nil {
		t.Fatal("task disappeared")
	}
	if task.Title != "new title" {
		t.Errorf("expected updated title, got %q", task.Title)
	}
	if !task.Completed {
		t.Error("expected task to be completed")
	}
}

func TestEditCommandLeavesOmittedFields(t *testing.T) {
	svc := testutil.NewFakeService()
	desc := "keep me"
	created, err := svc.CreateTask(context.Background(), service.CreateTaskInput{
		Title:       "old title",
		Description: &desc,
	})
	if err != nil {
		t.Fatal(err)
	}

	cmd := &commands.EditCmd{}
	cmd.SetField("title", "new title")
	_, _, code := runCommand(t, cmd, svc, []string{created.ID}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}

	task, _ := svc.GetTask(context.Background(), created.ID)
	if task.Description == nil || *task.Description != "keep me" {
		t.Errorf("expected description untouched, got %v", task.Description)
	}
}

func TestEditCommandNothingToUpdate(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("unchanged")

	cmd := &commands.EditCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: nothing to update\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestEditCommandInvalidPriority(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("unchanged")

	cmd := &commands.EditCmd{}
	cmd.SetField("priority", "urgent")
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid priority: urgent\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}
