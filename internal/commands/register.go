package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	username string
	password string
	email    string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "tasker register [common flags] --username <name> --password <password> --email <email>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.email, "email", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	username := strings.TrimSpace(c.username)
	email := strings.TrimSpace(c.email)

	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if c.password == "" {
		missing = append(missing, "password")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return fail(errOut, &service.ValidationError{Fields: missing})
	}

	if err := svc.Register(ctx, username, c.password, email); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered %s (run: tasker login)\n", username)
	}
	return exitcode.Success
}
