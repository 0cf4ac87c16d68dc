package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdo/internal/api"
	"taskdo/internal/config"
	"taskdo/internal/exitcode"
	"taskdo/internal/service"
	"taskdo/internal/session"
)

func init() {
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	name     string
	email    string
	password string
}

// SetDetails sets the account details (for testing).
func (c *SignupCmd) SetDetails(name, email, password string) {
	c.name = name
	c.email = email
	c.password = password
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return nil }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string {
	return "taskdo signup [--name <name>] [--email <email>] [--password <password>]"
}
func (c *SignupCmd) NeedsAuth() bool { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	if sess.IsAuthenticated() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	name := c.name
	if name == "" {
		var err error
		name, err = promptLine("name")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	email := c.email
	if email == "" {
		var err error
		email, err = promptLine("email")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	password := c.password
	if password == "" {
		var err error
		password, err = promptPassword("password")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if name == "" || email == "" || password == "" {
		fmt.Fprintln(errOut, "error: name, email and password required")
		return exitcode.UserError
	}

	result, err := sess.Signup(ctx, name, email, password)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		if api.HasCode(err, api.CodeNetworkError) {
			return exitcode.BackendError
		}
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "signed up as %s\n", result.User.Email)
	}
	return exitcode.Success
}
