package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdo/internal/config"
	"taskdo/internal/exitcode"
	"taskdo/internal/service"
	"taskdo/internal/session"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only flags actually set on the
// command line go into the update, so omitted fields stay untouched
// server-side; an explicitly empty value clears the field.
type EditCmd struct {
	title       string
	description string
	priority    string
	dueDate     string
	completed   bool

	fs  *flag.FlagSet
	set map[string]bool // populated from fs.Visit for tests that bypass parsing
}

// SetField marks a field as set with the given value (for testing).
func (c *EditCmd) SetField(name, value string) {
	if c.set == nil {
		c.set = make(map[string]bool)
	}
	c.set[name] = true
	switch name {
	case "title":
		c.title = value
	case "desc":
		c.description = value
	case "priority":
		c.priority = value
	case "due":
		c.dueDate = value
	case "completed":
		c.completed = value == "true"
	}
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Update fields of a task" }
func (c *EditCmd) Usage() string {
	return "taskdo edit [--title <text>] [--desc <text>] [--priority low|medium|high] [--due <date>] [--completed <bool>] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.dueDate, "due", "", "")
	fs.BoolVar(&c.completed, "completed", false, "")
	c.fs = fs
}

// setFlags returns the names of flags the user actually provided.
func (c *EditCmd) setFlags() map[string]bool {
	set := make(map[string]bool)
	for name := range c.set {
		set[name] = true
	}
	if c.fs != nil {
		c.fs.Visit(func(f *flag.Flag) {
			set[f.Name] = true
		})
	}
	return set
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}

	set := c.setFlags()

	var input service.UpdateTaskInput
	if set["title"] {
		title := c.title
		input.Title = &title
	}
	if set["desc"] {
		desc := c.description
		input.Description = &desc
	}
	if set["priority"] {
		p := service.Priority(c.priority)
		if !p.Valid() {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return exitcode.UserError
		}
		input.Priority = &p
	}
	if set["due"] {
		due := c.dueDate
		input.DueDate = &due
	}
	if set["completed"] {
		completed := c.completed
		input.Completed = &completed
	}

	if len(set) == 0 {
		fmt.Fprintln(errOut, "error: nothing to update")
		return exitcode.UserError
	}

	task, err := ResolveTask(ctx, svc, args[0])
	if err != nil {
		return reportError(errOut, err)
	}

	if _, err := svc.UpdateTask(ctx, task.ID, input); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
