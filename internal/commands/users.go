package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/output"
	"tasker/internal/service"
)

func init() {
	Register(&UsersCmd{})
}

// UsersCmd implements the users command.
// Lists share targets; failures degrade to an empty list.
type UsersCmd struct{}

func (c *UsersCmd) Name() string      { return "users" }
func (c *UsersCmd) Aliases() []string { return nil }
func (c *UsersCmd) Synopsis() string  { return "List users" }
func (c *UsersCmd) Usage() string     { return "tasker users [common flags]" }
func (c *UsersCmd) NeedsAuth() bool   { return true }

func (c *UsersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UsersCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	users := svc.ListUsers(ctx)
	if len(users) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no users found")
		}
		return exitcode.Success
	}

	for _, u := range users {
		output.FormatUser(out, u)
	}
	return exitcode.Success
}
