// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdo/internal/service"
)

// FormatTask formats a one-line task entry for list output.
// Format: "{N:>4}  [{x| }] {TITLE}" with priority and due date suffixes for
// non-default values.
func FormatTask(w io.Writer, num int, task service.Task) {
	marker := " "
	if task.Completed {
		marker = "x"
	}

	line := fmt.Sprintf("%4d  [%s] %s", num, marker, normalizeTitle(task.Title))
	if task.Priority != "" && task.Priority != service.PriorityMedium {
		line += fmt.Sprintf("  (%s)", task.Priority)
	}
	if task.DueDate != nil && *task.DueDate != "" {
		line += fmt.Sprintf("  due %s", *task.DueDate)
	}
	fmt.Fprintln(w, line)
}

// FormatTaskDetail formats the full task record for show output.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "id:        %s\n", task.ID)
	fmt.Fprintf(w, "title:     %s\n", normalizeTitle(task.Title))
	if task.Description != nil && *task.Description != "" {
		fmt.Fprintf(w, "desc:      %s\n", *task.Description)
	}
	fmt.Fprintf(w, "priority:  %s\n", task.Priority)
	fmt.Fprintf(w, "completed: %t\n", task.Completed)
	if task.DueDate != nil && *task.DueDate != "" {
		fmt.Fprintf(w, "due:       %s\n", *task.DueDate)
	}
	fmt.Fprintf(w, "created:   %s\n", task.CreatedAt)
	fmt.Fprintf(w, "updated:   %s\n", task.UpdatedAt)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
