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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. Usage lines come from the registry so
// the output stays in sync with the registered commands.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdo help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  taskdo                List tasks")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-60s %s\n", cmd.Usage()[len("taskdo "):], cmd.Synopsis())
	}
	fmt.Fprint(out, `
Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TASKDO_API_URL   Service base URL (default http://localhost:8000)
`)
	return exitcode.Success
}
