package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"taskdo/internal/api"
	"taskdo/internal/exitcode"
	"taskdo/internal/service"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ResolveTask resolves a task reference to a task. A reference is either the
// 1-based number printed by `taskdo list` (server order) or a full task id.
func ResolveTask(ctx context.Context, svc service.Service, ref string) (service.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return service.Task{}, ErrTaskRefRequired
	}

	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil || num < 1 {
			return service.Task{}, fmt.Errorf("task number out of range: %s", ref)
		}
		tasks, err := svc.ListTasks(ctx)
		if err != nil {
			return service.Task{}, err
		}
		if num > len(tasks) {
			return service.Task{}, fmt.Errorf("task number out of range: %d", num)
		}
		return tasks[num-1], nil
	}

	task, err := svc.GetTask(ctx, ref)
	if err != nil {
		return service.Task{}, err
	}
	if task == nil {
		return service.Task{}, fmt.Errorf("task not found: %s", ref)
	}
	return *task, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// reportError prints err and picks the exit code for a failed operation.
// Not-found and out-of-range references are user errors; a rejected session
// is an auth error; everything else is a backend error.
func reportError(errOut io.Writer, err error) int {
	if err == nil {
		return exitcode.Success
	}
	if api.HasCode(err, api.CodeUnauthorized) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	msg := err.Error()
	if strings.Contains(msg, "not found") || strings.Contains(msg, "out of range") || strings.Contains(msg, "required") {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
