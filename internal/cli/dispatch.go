// Package cli parses arguments and dispatches commands, wiring the session
// store, transport, and access gate together.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"sync"

	"taskdo/internal/api"
	"taskdo/internal/commands"
	"taskdo/internal/config"
	"taskdo/internal/exitcode"
	"taskdo/internal/gate"
	"taskdo/internal/service"
	"taskdo/internal/session"
)

// ServiceFactory creates a task Service from config and session state.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, store *session.Store, nav api.Navigator) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// loginHint is the CLI's navigation port. "Redirecting to the login view"
// means printing the login instruction; printing it twice in one dispatch
// (gate refusal plus a mid-request 401) would just be noise, so it fires
// once.
type loginHint struct {
	w    io.Writer
	once sync.Once
}

func (h *loginHint) RedirectToLogin() {
	h.once.Do(func() {
		fmt.Fprintln(h.w, "error: not logged in (run: taskdo login)")
	})
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	store := session.NewStore(cfg)
	nav := &loginHint{w: errOut}

	sess := session.NewManager(api.New(cfg.BaseURL, store, nav), store)
	if cfg.Debug {
		sess.SetDebugf(func(format string, a ...any) {
			fmt.Fprintf(errOut, "debug: "+format+"\n", a...)
		})
	}

	var svc service.Service
	if cmd.NeedsAuth() {
		g := gate.New(store, nav)
		if !g.Allow(cmd.Name()) {
			if dest := g.ReturnTo(); dest != "" && !cfg.Quiet {
				fmt.Fprintf(errOut, "after logging in, run: taskdo %s\n", dest)
			}
			return exitcode.AuthError
		}

		svc, err = d.factory(ctx, cfg, store, nav)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	return cmd.Run(ctx, cfg, sess, svc, positionalArgs, out, errOut)
}

// reportFlagError maps flag package errors to the CLI's error lines.
func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		if len(parts) > 0 {
			flagPart := strings.TrimSpace(parts[0])
			flagPart = strings.TrimPrefix(flagPart, "flag ")
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
			return exitcode.UserError
		}
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
