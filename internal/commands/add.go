package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdo/internal/config"
	"taskdo/internal/exitcode"
	"taskdo/internal/service"
	"taskdo/internal/session"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	priority    string
	dueDate     string
}

// SetFlags sets the flag values (for testing).
func (c *AddCmd) SetFlags(description, priority, dueDate string) {
	c.description = description
	c.priority = priority
	c.dueDate = dueDate
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskdo add [--desc <text>] [--priority low|medium|high] [--due <date>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.dueDate, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	input := service.CreateTaskInput{Title: title}

	if c.priority != "" {
		p := service.Priority(c.priority)
		if !p.Valid() {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return exitcode.UserError
		}
		input.Priority = p
	}
	if c.description != "" {
		desc := c.description
		input.Description = &desc
	}
	if c.dueDate != "" {
		due := c.dueDate
		input.DueDate = &due
	}

	if _, err := svc.CreateTask(ctx, input); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
